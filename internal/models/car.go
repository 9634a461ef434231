package models

import "time"

type Car struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
	Model        string    `json:"model" gorm:"not null"`
	LicensePlate string    `json:"licensePlate" gorm:"column:license_plate;unique;not null"`
	Seats        int       `json:"seats"`
	Capacity     int       `json:"capacity"`
	PricePerKm   float64   `json:"pricePerKm" gorm:"column:price_per_km"`
	Photo        string    `json:"photo" gorm:"type:text"`
	Status       int       `json:"status" gorm:"default:0"`
}

func (Car) TableName() string {
	return "cars"
}
