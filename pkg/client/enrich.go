package client

import (
	"sync"

	"github.com/dkmwangi/cabride-backend/internal/models"
)

// CarResult is the outcome of one enrichment lookup: either the car or an
// explicit error marker. A failed lookup never hides behind a nil entry.
type CarResult struct {
	Car *models.Car
	Err error
}

// DefaultEnrichWorkers bounds the lookup fan-out.
const DefaultEnrichWorkers = 4

// EnrichCars resolves every distinct car id referenced by the bookings,
// issuing at most workers concurrent lookups. Per-item failures are recorded
// in the result and never abort the batch; the returned map always has one
// entry per distinct car id.
func (g *Gateway) EnrichCars(bookings []models.Booking, workers int) map[uint]CarResult {
	if workers <= 0 {
		workers = DefaultEnrichWorkers
	}

	ids := make([]uint, 0)
	seen := make(map[uint]bool)
	for _, b := range bookings {
		if !seen[b.CarID] {
			seen[b.CarID] = true
			ids = append(ids, b.CarID)
		}
	}

	results := make(map[uint]CarResult, len(ids))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for _, id := range ids {
		wg.Add(1)
		go func(carID uint) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			car, err := g.GetCar(carID)
			mu.Lock()
			results[carID] = CarResult{Car: car, Err: err}
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return results
}
