package booking

import (
	"sync"
	"testing"

	"github.com/dkmwangi/cabride-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for exercising transitions without a
// database.
type fakeStore struct {
	mu      sync.Mutex
	nextID  uint
	records map[uint]models.Booking
	failAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, records: make(map[uint]models.Booking)}
}

func (s *fakeStore) Create(b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return assert.AnError
	}
	b.ID = s.nextID
	s.nextID++
	s.records[b.ID] = *b
	return nil
}

func (s *fakeStore) Get(id uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := b
	return &copied, nil
}

func (s *fakeStore) Save(b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return assert.AnError
	}
	s.records[b.ID] = *b
	return nil
}

func (s *fakeStore) Delete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *fakeStore) List() ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Booking, 0, len(s.records))
	for _, b := range s.records {
		out = append(out, b)
	}
	return out, nil
}

func validCard() CardDetails {
	return CardDetails{
		CardNumber: "4242424242424242",
		ExpiryDate: "12/27",
		CVV:        "123",
	}
}

func createPending(t *testing.T, ctrl *Controller) *models.Booking {
	t.Helper()
	b, err := ctrl.Create(CreateInput{
		UserID:         3,
		CarID:          5,
		DriverID:       7,
		Location:       "Westlands",
		Time:           "2026-09-01T08:30",
		TravelDistance: 10,
		PricePerKm:     2.5,
	})
	require.NoError(t, err)
	return b
}

func TestCreate(t *testing.T) {
	t.Run("ComputesFeeAtCreation", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)

		assert.Equal(t, 25.00, b.TotalFee)
		assert.Equal(t, models.BookStatusPending, b.BookStatus)
		assert.Equal(t, models.PaymentStatusUnpaid, b.PaymentStatus)
		assert.NotZero(t, b.ID)
	})

	t.Run("ZeroDistanceMeansZeroFee", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b, err := ctrl.Create(CreateInput{
			UserID:     3,
			CarID:      5,
			DriverID:   7,
			Location:   "CBD",
			Time:       "2026-09-01T09:00",
			PricePerKm: 2.5,
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, b.TotalFee)
	})

	t.Run("RequiresLocationTimeAndDriver", func(t *testing.T) {
		ctrl := NewController(newFakeStore())

		_, err := ctrl.Create(CreateInput{UserID: 3, CarID: 5, DriverID: 7, Time: "t"})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = ctrl.Create(CreateInput{UserID: 3, CarID: 5, DriverID: 7, Location: "l", Time: "  "})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = ctrl.Create(CreateInput{UserID: 3, CarID: 5, Location: "l", Time: "t"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("StoreFailureReportsErrorWithoutMutation", func(t *testing.T) {
		store := newFakeStore()
		store.failAll = true
		ctrl := NewController(store)

		_, err := ctrl.Create(CreateInput{
			UserID: 3, CarID: 5, DriverID: 7,
			Location: "l", Time: "t", PricePerKm: 2.5,
		})
		require.Error(t, err)
		assert.Empty(t, store.records)
	})
}

func TestAccept(t *testing.T) {
	t.Run("PendingBecomesInProgress", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)

		accepted, err := ctrl.Accept(b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookStatusInProgress, accepted.BookStatus)
	})

	t.Run("AcceptDoesNotRemoveTheBooking", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)

		_, err := ctrl.Accept(b.ID)
		require.NoError(t, err)

		list, err := ctrl.List()
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("RejectedFromNonPendingStates", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)

		_, err := ctrl.Accept(b.ID)
		require.NoError(t, err)

		_, err = ctrl.Accept(b.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		cancelled := createPending(t, ctrl)
		_, err = ctrl.Cancel(cancelled.ID)
		require.NoError(t, err)
		_, err = ctrl.Accept(cancelled.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("UnknownBooking", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		_, err := ctrl.Accept(99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCancel(t *testing.T) {
	t.Run("FromPending", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)

		cancelled, err := ctrl.Cancel(b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookStatusCancelled, cancelled.BookStatus)
	})

	t.Run("FromInProgress", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)
		_, err := ctrl.Accept(b.ID)
		require.NoError(t, err)

		cancelled, err := ctrl.Cancel(b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookStatusCancelled, cancelled.BookStatus)
		assert.False(t, cancelled.Active())
	})

	t.Run("Idempotent", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)

		first, err := ctrl.Cancel(b.ID)
		require.NoError(t, err)
		second, err := ctrl.Cancel(b.ID)
		require.NoError(t, err)

		assert.Equal(t, models.BookStatusCancelled, first.BookStatus)
		assert.Equal(t, models.BookStatusCancelled, second.BookStatus)
	})
}

func TestSettlePayment(t *testing.T) {
	t.Run("AcceptedUnpaidBecomesPaid", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)
		_, err := ctrl.Accept(b.ID)
		require.NoError(t, err)

		paid, err := ctrl.SettlePayment(b.ID, validCard())
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
		assert.False(t, paid.PaymentEligible())
	})

	t.Run("RejectedWhilePending", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)

		_, err := ctrl.SettlePayment(b.ID, validCard())
		assert.ErrorIs(t, err, ErrInvalidTransition)

		unchanged, getErr := ctrl.store.Get(b.ID)
		require.NoError(t, getErr)
		assert.Equal(t, models.PaymentStatusUnpaid, unchanged.PaymentStatus)
	})

	t.Run("RejectedAfterCancel", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)
		_, err := ctrl.Cancel(b.ID)
		require.NoError(t, err)

		_, err = ctrl.SettlePayment(b.ID, validCard())
		assert.ErrorIs(t, err, ErrInvalidTransition)

		unchanged, getErr := ctrl.store.Get(b.ID)
		require.NoError(t, getErr)
		assert.Equal(t, models.BookStatusCancelled, unchanged.BookStatus)
		assert.Equal(t, models.PaymentStatusUnpaid, unchanged.PaymentStatus)
	})

	t.Run("RejectedWhenAlreadyPaid", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)
		_, err := ctrl.Accept(b.ID)
		require.NoError(t, err)
		_, err = ctrl.SettlePayment(b.ID, validCard())
		require.NoError(t, err)

		_, err = ctrl.SettlePayment(b.ID, validCard())
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("CardValidation", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)
		_, err := ctrl.Accept(b.ID)
		require.NoError(t, err)

		cases := []struct {
			name string
			card CardDetails
		}{
			{"MissingNumber", CardDetails{ExpiryDate: "12/27", CVV: "123"}},
			{"ShortNumber", CardDetails{CardNumber: "1234", ExpiryDate: "12/27", CVV: "123"}},
			{"AlphaNumber", CardDetails{CardNumber: "4242abcd42424242", ExpiryDate: "12/27", CVV: "123"}},
			{"BadExpiry", CardDetails{CardNumber: "4242424242424242", ExpiryDate: "1227", CVV: "123"}},
			{"MissingCVV", CardDetails{CardNumber: "4242424242424242", ExpiryDate: "12/27"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := ctrl.SettlePayment(b.ID, tc.card)
				assert.ErrorIs(t, err, ErrValidation)
			})
		}
	})

	t.Run("DashedCardNumberAccepted", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		b := createPending(t, ctrl)
		_, err := ctrl.Accept(b.ID)
		require.NoError(t, err)

		card := CardDetails{CardNumber: "4242-4242-4242-4242", ExpiryDate: "12/27", CVV: "123"}
		paid, err := ctrl.SettlePayment(b.ID, card)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
	})
}

func TestDelete(t *testing.T) {
	t.Run("RemovesAnyStatus", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		pending := createPending(t, ctrl)
		accepted := createPending(t, ctrl)
		_, err := ctrl.Accept(accepted.ID)
		require.NoError(t, err)

		require.NoError(t, ctrl.Delete(pending.ID))
		require.NoError(t, ctrl.Delete(accepted.ID))

		list, err := ctrl.List()
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("UnknownBooking", func(t *testing.T) {
		ctrl := NewController(newFakeStore())
		assert.ErrorIs(t, ctrl.Delete(42), ErrNotFound)
	})
}
