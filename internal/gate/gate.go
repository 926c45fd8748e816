// Package gate bounds the number of in-flight requests.
package gate

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/semaphore"
)

var inFlightGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "routeperf_requests_in_flight",
	Help: "Number of requests currently admitted through the gate.",
})

// Gate is a counting admission control primitive. Acquire blocks until a
// slot is free: admission is backpressure, never load shedding, so the
// observed throughput reflects the target's true capacity.
type Gate struct {
	sem   *semaphore.Weighted
	limit int64
}

// New returns a Gate admitting at most limit concurrent holders.
// It panics if limit is not positive.
func New(limit int64) *Gate {
	if limit <= 0 {
		panic("gate: limit must be positive")
	}
	return &Gate{
		sem:   semaphore.NewWeighted(limit),
		limit: limit,
	}
}

// Acquire blocks until a slot is free or ctx is done. It returns ctx's
// error in the latter case.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	inFlightGauge.Inc()
	return nil
}

// Release frees a slot. It must be called exactly once per successful
// Acquire, on success and failure alike.
func (g *Gate) Release() {
	inFlightGauge.Dec()
	g.sem.Release(1)
}

// Limit returns the configured bound.
func (g *Gate) Limit() int64 {
	return g.limit
}
