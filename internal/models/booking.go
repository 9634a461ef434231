package models

import "time"

// BookStatus is the booking lifecycle state. The numeric codes are part of
// the wire contract and must not be renumbered.
type BookStatus int

const (
	BookStatusPending    BookStatus = 0
	BookStatusInProgress BookStatus = 1
	BookStatusCancelled  BookStatus = 2
)

func (s BookStatus) String() string {
	switch s {
	case BookStatusPending:
		return "pending"
	case BookStatusInProgress:
		return "in_progress"
	case BookStatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

type PaymentStatus int

const (
	PaymentStatusUnpaid PaymentStatus = 0
	PaymentStatusPaid   PaymentStatus = 1
)

func (s PaymentStatus) String() string {
	if s == PaymentStatusPaid {
		return "paid"
	}
	return "unpaid"
}

// Booking links a customer, a vehicle and a driver for a trip. PricePerKm is
// copied from the car at creation time and never re-queried.
type Booking struct {
	ID             uint          `json:"id" gorm:"primarykey"`
	CreatedAt      time.Time     `json:"-"`
	UpdatedAt      time.Time     `json:"-"`
	UserID         uint          `json:"userid" gorm:"column:user_id;not null"`
	CarID          uint          `json:"carid" gorm:"column:car_id;not null"`
	DriverID       uint          `json:"driverid" gorm:"column:driver_id;not null"`
	Location       string        `json:"location" gorm:"not null"`
	Time           string        `json:"time" gorm:"not null"`
	TravelDistance float64       `json:"travelDistance" gorm:"column:travel_distance"`
	PricePerKm     float64       `json:"pricePerKm" gorm:"column:price_per_km"`
	TotalFee       float64       `json:"totalfee" gorm:"column:total_fee"`
	BookStatus     BookStatus    `json:"bookstatus" gorm:"column:book_status;not null;default:0"`
	PaymentStatus  PaymentStatus `json:"paymentstatus" gorm:"column:payment_status;not null;default:0"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Active reports whether the booking belongs in driver-facing views.
func (b *Booking) Active() bool {
	return b.BookStatus != BookStatusCancelled
}

// PaymentEligible reports whether the payment flow may settle this booking.
func (b *Booking) PaymentEligible() bool {
	return b.BookStatus == BookStatusInProgress && b.PaymentStatus == PaymentStatusUnpaid
}
