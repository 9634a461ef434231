package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkmwangi/cabride-backend/internal/booking"
	"github.com/dkmwangi/cabride-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRoundTrip(t *testing.T) {
	var received map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/bookings/create", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))

		w.WriteHeader(201)
		json.NewEncoder(w).Encode(models.Booking{
			ID: 12, UserID: 3, CarID: 5, DriverID: 7,
			Location: "Westlands", Time: "2026-09-01T08:30",
			TravelDistance: 10, PricePerKm: 2.5, TotalFee: 25,
			BookStatus:    models.BookStatusPending,
			PaymentStatus: models.PaymentStatusUnpaid,
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	gw := New(server.URL)
	b, err := gw.CreateBooking(CreateBookingRequest{
		UserID: 3, CarID: 5, DriverID: 7,
		Location: "Westlands", Time: "2026-09-01T08:30", TravelDistance: "10",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(12), b.ID)
	assert.Equal(t, 25.0, b.TotalFee)
	assert.Equal(t, models.BookStatusPending, b.BookStatus)

	// The wire field names are the original contract.
	assert.Equal(t, float64(3), received["userid"])
	assert.Equal(t, float64(5), received["carid"])
	assert.Equal(t, float64(7), received["driverid"])
	assert.Equal(t, "10", received["travelDistance"])
}

func TestSettlePaymentErrorSurfaced(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings/update/9/paymentstatus", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(409)
		json.NewEncoder(w).Encode(map[string]string{"error": "booking 9 is not payment-eligible"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	gw := New(server.URL)
	_, err := gw.SettlePayment(9, booking.CardDetails{
		CardNumber: "4242424242424242", ExpiryDate: "12/27", CVV: "123",
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
	assert.Contains(t, apiErr.Message, "not payment-eligible")
}

func TestLoginEstablishesSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/userlogin", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"userid": 3, "userrole": 2, "username": "amina", "token": "tok123",
		})
	})
	var loggedOut bool
	mux.HandleFunc("/users/logout", func(w http.ResponseWriter, r *http.Request) {
		loggedOut = true
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	gw := New(server.URL)
	session, err := gw.Login("amina@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, uint(3), session.UserID)
	assert.Equal(t, models.RoleCustomer, session.Role)
	assert.True(t, session.Valid())

	require.NoError(t, gw.Logout(session))
	assert.True(t, loggedOut)
	assert.False(t, session.Valid())
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/userlogin", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"userid": 3, "userrole": 9, "token": "tok123",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	_, err := New(server.URL).Login("amina@example.com", "secret123")
	assert.Error(t, err)
}

func TestTransportErrorWrapped(t *testing.T) {
	gw := New("http://127.0.0.1:1") // nothing listens here
	_, err := gw.ListBookings()
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures are not APIErrors")
}
