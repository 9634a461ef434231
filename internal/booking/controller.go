package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dkmwangi/cabride-backend/internal/models"
	"github.com/dkmwangi/cabride-backend/pkg/utils"
)

var (
	// ErrNotFound means the booking id is unknown to the store.
	ErrNotFound = errors.New("booking not found")
	// ErrInvalidTransition means the requested operation is not valid from
	// the booking's current state.
	ErrInvalidTransition = errors.New("invalid booking state transition")
	// ErrValidation means the input failed a precondition check.
	ErrValidation = errors.New("invalid booking input")
)

// Store is the persistence boundary of the lifecycle controller. Production
// uses the gorm-backed implementation; tests use an in-memory fake.
type Store interface {
	Create(b *models.Booking) error
	Get(id uint) (*models.Booking, error)
	Save(b *models.Booking) error
	Delete(id uint) error
	List() ([]models.Booking, error)
}

// Controller owns the valid state transitions of a booking and the side
// effects each produces, independent of which view triggers them.
type Controller struct {
	store Store
}

func NewController(store Store) *Controller {
	return &Controller{store: store}
}

// CreateInput carries the customer-supplied fields of a new booking.
// PricePerKm is copied from the selected car by the caller.
type CreateInput struct {
	UserID         uint
	CarID          uint
	DriverID       uint
	Location       string
	Time           string
	TravelDistance float64
	PricePerKm     float64
}

// Create persists a new booking in Pending/Unpaid state. The total fee is
// computed here, once, and never recomputed server-side afterwards.
func (c *Controller) Create(in CreateInput) (*models.Booking, error) {
	if strings.TrimSpace(in.Location) == "" {
		return nil, fmt.Errorf("%w: location is required", ErrValidation)
	}
	if strings.TrimSpace(in.Time) == "" {
		return nil, fmt.Errorf("%w: time is required", ErrValidation)
	}
	if in.DriverID == 0 {
		return nil, fmt.Errorf("%w: a driver must be selected", ErrValidation)
	}

	b := &models.Booking{
		UserID:         in.UserID,
		CarID:          in.CarID,
		DriverID:       in.DriverID,
		Location:       in.Location,
		Time:           in.Time,
		TravelDistance: in.TravelDistance,
		PricePerKm:     in.PricePerKm,
		TotalFee:       utils.ComputeFee(in.PricePerKm, in.TravelDistance),
		BookStatus:     models.BookStatusPending,
		PaymentStatus:  models.PaymentStatusUnpaid,
	}

	if err := c.store.Create(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Accept transitions a Pending booking to InProgress. Accepting does not
// delete the booking; removal is a separate, explicitly-invoked operation.
func (c *Controller) Accept(id uint) (*models.Booking, error) {
	b, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	if b.BookStatus != models.BookStatusPending {
		return nil, fmt.Errorf("%w: cannot accept booking %d in state %s",
			ErrInvalidTransition, id, b.BookStatus)
	}
	b.BookStatus = models.BookStatusInProgress
	if err := c.store.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel marks the booking Cancelled. The record stays in the collection but
// is filtered out of active views. Cancelling an already-cancelled booking is
// a no-op, so concurrent cancels converge on the same final state.
func (c *Controller) Cancel(id uint) (*models.Booking, error) {
	b, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	if b.BookStatus == models.BookStatusCancelled {
		return b, nil
	}
	b.BookStatus = models.BookStatusCancelled
	if err := c.store.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

// CardDetails are checked for presence and shape only. There is no payment
// processor behind this; settling a payment is a status flip.
type CardDetails struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

func (d CardDetails) validate() error {
	number := strings.ReplaceAll(d.CardNumber, "-", "")
	if len(number) < 12 || len(number) > 19 {
		return fmt.Errorf("%w: card number must be 12-19 digits", ErrValidation)
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: card number must be numeric", ErrValidation)
		}
	}
	if len(d.ExpiryDate) != 5 || d.ExpiryDate[2] != '/' {
		return fmt.Errorf("%w: expiry date must be MM/YY", ErrValidation)
	}
	if len(d.CVV) < 3 || len(d.CVV) > 4 {
		return fmt.Errorf("%w: cvv must be 3-4 digits", ErrValidation)
	}
	return nil
}

// SettlePayment flips the payment status of an in-progress, unpaid booking.
func (c *Controller) SettlePayment(id uint, card CardDetails) (*models.Booking, error) {
	if err := card.validate(); err != nil {
		return nil, err
	}
	b, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	if !b.PaymentEligible() {
		return nil, fmt.Errorf("%w: booking %d is not payment-eligible (status %s, payment %s)",
			ErrInvalidTransition, id, b.BookStatus, b.PaymentStatus)
	}
	b.PaymentStatus = models.PaymentStatusPaid
	if err := c.store.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes the booking entirely, regardless of status.
func (c *Controller) Delete(id uint) error {
	if _, err := c.store.Get(id); err != nil {
		return err
	}
	return c.store.Delete(id)
}

// List returns the full booking collection.
func (c *Controller) List() ([]models.Booking, error) {
	return c.store.List()
}
