package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dkmwangi/cabride-backend/internal/booking"
	"github.com/dkmwangi/cabride-backend/internal/models"
	"github.com/dkmwangi/cabride-backend/internal/services"
	"github.com/dkmwangi/cabride-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Distance tolerates both JSON numbers and free-form strings; the booking
// form submits whatever the customer typed, and non-numeric input counts as
// zero kilometres.
type Distance float64

func (d *Distance) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		s = ""
	}
	*d = Distance(utils.ParseDistance(s))
	return nil
}

// ID tolerates quoted identifiers; the booking form echoes the stored user id
// back as a string. Unlike Distance, a non-numeric id is an error.
type ID uint

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*id = ID(v)
	return nil
}

type CreateBookingInput struct {
	UserID         ID       `json:"userid" binding:"required"`
	CarID          ID       `json:"carid" binding:"required"`
	DriverID       ID       `json:"driverid" binding:"required"`
	Location       string   `json:"location"`
	Time           string   `json:"time"`
	TravelDistance Distance `json:"travelDistance"`
}

func bookingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid booking id"})
		return 0, false
	}
	return uint(id), true
}

func renderBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(404, gin.H{"error": "Booking not found"})
	case errors.Is(err, booking.ErrInvalidTransition):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrValidation):
		c.JSON(400, gin.H{"error": err.Error()})
	default:
		c.JSON(500, gin.H{"error": "Booking operation failed"})
	}
}

// CreateBooking handles the creation of a new booking. The price per km is
// copied from the car here, at creation time, so the persisted total fee is
// guaranteed to match pricePerKm * travelDistance regardless of what the
// client computed for display.
func CreateBooking(db *gorm.DB, ctrl *booking.Controller, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var car models.Car
		if err := db.First(&car, uint(input.CarID)).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		var driver models.User
		if err := db.Where("user_role = ?", models.RoleDriver).First(&driver, uint(input.DriverID)).Error; err != nil {
			c.JSON(400, gin.H{"error": "Selected driver is not available"})
			return
		}

		b, err := ctrl.Create(booking.CreateInput{
			UserID:         uint(input.UserID),
			CarID:          uint(input.CarID),
			DriverID:       uint(input.DriverID),
			Location:       input.Location,
			Time:           input.Time,
			TravelDistance: float64(input.TravelDistance),
			PricePerKm:     car.PricePerKm,
		})
		if err != nil {
			renderBookingError(c, err)
			return
		}

		hub.NotifyBookingCreated(b)
		c.JSON(201, b)
	}
}

// GetAllBookings lists the full booking collection; role views filter it.
func GetAllBookings(ctrl *booking.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := ctrl.List()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}
		c.JSON(200, bookings)
	}
}

// AcceptBooking marks a pending booking in progress (the "status1" route).
func AcceptBooking(ctrl *booking.Controller, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingID(c)
		if !ok {
			return
		}

		b, err := ctrl.Accept(id)
		if err != nil {
			renderBookingError(c, err)
			return
		}

		hub.NotifyBookingAccepted(b)
		c.JSON(200, b)
	}
}

// CancelBooking marks a booking cancelled (the "status2" route). Repeated
// cancellations return the same final state.
func CancelBooking(ctrl *booking.Controller, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingID(c)
		if !ok {
			return
		}

		b, err := ctrl.Cancel(id)
		if err != nil {
			renderBookingError(c, err)
			return
		}

		hub.NotifyBookingCancelled(b)
		c.JSON(200, b)
	}
}

// SettlePayment flips the payment status of an accepted booking after the
// card fields pass presence checks.
func SettlePayment(ctrl *booking.Controller, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingID(c)
		if !ok {
			return
		}

		var card booking.CardDetails
		if err := c.ShouldBindJSON(&card); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		b, err := ctrl.SettlePayment(id, card)
		if err != nil {
			renderBookingError(c, err)
			return
		}

		hub.NotifyPaymentSettled(b)
		c.JSON(200, b)
	}
}

// DeleteBooking removes a booking entirely. Exposed on two paths for
// compatibility with both callers of the original service.
func DeleteBooking(ctrl *booking.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingID(c)
		if !ok {
			return
		}

		if err := ctrl.Delete(id); err != nil {
			renderBookingError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Booking deleted successfully"})
	}
}
