package client

import (
	"fmt"
	"strings"

	"github.com/dkmwangi/cabride-backend/internal/booking"
	"github.com/dkmwangi/cabride-backend/internal/models"
	"github.com/dkmwangi/cabride-backend/pkg/utils"
)

// Projection helpers. Each role view is a filtered projection of the shared
// booking collection; the predicates live here so they apply identically no
// matter which screen renders them.

// FilterCustomerBookings keeps the bookings created by the given customer.
func FilterCustomerBookings(bookings []models.Booking, userID uint) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out
}

// FilterDriverWorklist keeps the bookings assigned to the given driver that
// have not been cancelled.
func FilterDriverWorklist(bookings []models.Booking, driverID uint) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if b.DriverID == driverID && b.Active() {
			out = append(out, b)
		}
	}
	return out
}

// FilterPaymentEligible keeps the given customer's bookings that are in
// progress and still unpaid.
func FilterPaymentEligible(bookings []models.Booking, userID uint) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if b.UserID == userID && b.PaymentEligible() {
			out = append(out, b)
		}
	}
	return out
}

// CustomerView books cabs and manages the customer's own bookings.
type CustomerView struct {
	gw      *Gateway
	session *Session
}

func NewCustomerView(gw *Gateway, session *Session) *CustomerView {
	return &CustomerView{gw: gw, session: session}
}

// AvailableCars lists the fleet shown on the booking screen.
func (v *CustomerView) AvailableCars() ([]models.Car, error) {
	return v.gw.ListCars()
}

// Drivers lists the pool a driver must be selected from.
func (v *CustomerView) Drivers() ([]models.User, error) {
	return v.gw.ListDrivers()
}

// MyBookings returns the customer's own bookings, any status.
func (v *CustomerView) MyBookings() ([]models.Booking, error) {
	bookings, err := v.gw.ListBookings()
	if err != nil {
		return nil, err
	}
	return FilterCustomerBookings(bookings, v.session.UserID), nil
}

// QuoteFee computes the fee preview shown while the customer types a
// distance. The service recomputes the same product at creation.
func (v *CustomerView) QuoteFee(car *models.Car, distance string) float64 {
	return utils.ComputeFee(car.PricePerKm, utils.ParseDistance(distance))
}

// Book validates the form and submits the booking. The returned record is
// the service-confirmed state, not a local guess.
func (v *CustomerView) Book(carID, driverID uint, location, pickupTime, distance string) (*models.Booking, error) {
	if strings.TrimSpace(location) == "" || strings.TrimSpace(pickupTime) == "" {
		return nil, fmt.Errorf("%w: location and time are required", booking.ErrValidation)
	}
	if driverID == 0 {
		return nil, fmt.Errorf("%w: a driver must be selected", booking.ErrValidation)
	}

	return v.gw.CreateBooking(CreateBookingRequest{
		UserID:         v.session.UserID,
		CarID:          carID,
		DriverID:       driverID,
		Location:       location,
		Time:           pickupTime,
		TravelDistance: distance,
	})
}

// Delete removes one of the customer's bookings, any status.
func (v *CustomerView) Delete(bookingID uint) error {
	return v.gw.DeleteBooking(bookingID)
}

// DriverView shows a driver's assigned rides and dispatches accept/cancel.
type DriverView struct {
	gw      *Gateway
	session *Session
}

func NewDriverView(gw *Gateway, session *Session) *DriverView {
	return &DriverView{gw: gw, session: session}
}

// Worklist returns the driver's active assignments.
func (v *DriverView) Worklist() ([]models.Booking, error) {
	bookings, err := v.gw.ListBookings()
	if err != nil {
		return nil, err
	}
	return FilterDriverWorklist(bookings, v.session.UserID), nil
}

// Accept confirms a pending ride. The booking stays in the collection;
// removing it is a separate decision, not a side effect of accepting.
func (v *DriverView) Accept(bookingID uint) (*models.Booking, error) {
	return v.gw.AcceptBooking(bookingID)
}

// Cancel withdraws from a ride.
func (v *DriverView) Cancel(bookingID uint) (*models.Booking, error) {
	return v.gw.CancelBooking(bookingID)
}

// PaymentView settles fares for the customer's accepted rides.
type PaymentView struct {
	gw      *Gateway
	session *Session
}

func NewPaymentView(gw *Gateway, session *Session) *PaymentView {
	return &PaymentView{gw: gw, session: session}
}

// Outstanding returns the bookings awaiting payment by the current user.
func (v *PaymentView) Outstanding() ([]models.Booking, error) {
	bookings, err := v.gw.ListBookings()
	if err != nil {
		return nil, err
	}
	return FilterPaymentEligible(bookings, v.session.UserID), nil
}

// Pay settles the fare of one booking with the given card details.
func (v *PaymentView) Pay(bookingID uint, card booking.CardDetails) (*models.Booking, error) {
	return v.gw.SettlePayment(bookingID, card)
}

// AdminView sees and cancels any booking.
type AdminView struct {
	gw      *Gateway
	session *Session
}

func NewAdminView(gw *Gateway, session *Session) *AdminView {
	return &AdminView{gw: gw, session: session}
}

// AllBookings returns the unfiltered collection.
func (v *AdminView) AllBookings() ([]models.Booking, error) {
	return v.gw.ListBookings()
}

// Cancel marks any booking cancelled.
func (v *AdminView) Cancel(bookingID uint) (*models.Booking, error) {
	return v.gw.CancelBooking(bookingID)
}

// Remove hard-deletes a booking from the collection.
func (v *AdminView) Remove(bookingID uint) error {
	return v.gw.DeleteBooking(bookingID)
}
