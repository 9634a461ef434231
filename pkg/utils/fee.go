package utils

import (
	"math"
	"strconv"
	"strings"
)

// ComputeFee returns pricePerKm * distance rounded to two decimal places.
// A missing, negative or non-numeric distance counts as zero.
func ComputeFee(pricePerKm, distance float64) float64 {
	if math.IsNaN(distance) || distance < 0 {
		distance = 0
	}
	if math.IsNaN(pricePerKm) || pricePerKm < 0 {
		pricePerKm = 0
	}
	return math.Round(pricePerKm*distance*100) / 100
}

// ParseDistance converts a free-form distance value to kilometres. Values
// that do not parse as a number are treated as zero, matching how a blank
// distance field is handled at booking creation.
func ParseDistance(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
