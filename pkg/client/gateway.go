// Package client is the Go interface to the cab-booking service: a thin HTTP
// gateway, an explicit session context, and the role views built on top of
// them. Views never mutate their projection optimistically; they apply only
// the entity state the gateway confirmed in a response.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dkmwangi/cabride-backend/internal/booking"
	"github.com/dkmwangi/cabride-backend/internal/models"
)

// APIError is a non-success response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("service returned %d", e.Status)
}

// Gateway talks to the booking/vehicle/user service of record.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Gateway {
	return &Gateway{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithToken returns a copy of the gateway that sends the bearer token.
func (g *Gateway) WithToken(token string) *Gateway {
	copied := *g
	copied.token = token
	return &copied
}

func (g *Gateway) do(method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ListBookings fetches the full booking collection.
func (g *Gateway) ListBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	if err := g.do(http.MethodGet, "/bookings/all", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBookingRequest mirrors the create form. TravelDistance is free-form;
// the service treats non-numeric values as zero.
type CreateBookingRequest struct {
	UserID         uint   `json:"userid"`
	CarID          uint   `json:"carid"`
	DriverID       uint   `json:"driverid"`
	Location       string `json:"location"`
	Time           string `json:"time"`
	TravelDistance string `json:"travelDistance"`
}

// CreateBooking persists a new booking and returns the confirmed record.
func (g *Gateway) CreateBooking(req CreateBookingRequest) (*models.Booking, error) {
	var b models.Booking
	if err := g.do(http.MethodPost, "/bookings/create", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// AcceptBooking transitions a pending booking to in-progress.
func (g *Gateway) AcceptBooking(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := g.do(http.MethodPut, fmt.Sprintf("/bookings/update/%d/status1", id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CancelBooking marks a booking cancelled.
func (g *Gateway) CancelBooking(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := g.do(http.MethodPut, fmt.Sprintf("/bookings/update/%d/status2", id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// SettlePayment settles the fare of an accepted booking.
func (g *Gateway) SettlePayment(id uint, card booking.CardDetails) (*models.Booking, error) {
	var b models.Booking
	if err := g.do(http.MethodPut, fmt.Sprintf("/bookings/update/%d/paymentstatus", id), card, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteBooking removes a booking entirely.
func (g *Gateway) DeleteBooking(id uint) error {
	return g.do(http.MethodDelete, fmt.Sprintf("/bookings/delete/%d", id), nil, nil)
}

// ListCars fetches the fleet.
func (g *Gateway) ListCars() ([]models.Car, error) {
	var cars []models.Car
	if err := g.do(http.MethodGet, "/cars/all", nil, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// GetCar fetches one vehicle for enrichment.
func (g *Gateway) GetCar(id uint) (*models.Car, error) {
	var car models.Car
	if err := g.do(http.MethodGet, fmt.Sprintf("/cars/%d", id), nil, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// ListDrivers fetches the driver pool for assignment.
func (g *Gateway) ListDrivers() ([]models.User, error) {
	var drivers []models.User
	if err := g.do(http.MethodGet, "/users/staff", nil, &drivers); err != nil {
		return nil, err
	}
	return drivers, nil
}
