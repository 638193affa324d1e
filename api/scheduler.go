/*
scheduler.go - Automated replenishment scheduler

PURPOSE:
  Periodically scans the catalog for materials at or below their
  reorder point and opens a purchase request covering them.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Delegates the scan and request creation to Requester.AutoGenerate
  - Skips a run when nothing is low; at most one request per run
  - Structured logging via zerolog

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewReplenishmentScheduler(handler, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: AutoGenerateRequest endpoint (manual trigger)
  - inventory/request.go: Requester.AutoGenerate
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ReplenishmentScheduler opens purchase requests for low-stock
// materials on a timer.
type ReplenishmentScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	log    zerolog.Logger
	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewReplenishmentScheduler creates a new scheduler.
func NewReplenishmentScheduler(handler *Handler, log zerolog.Logger) *ReplenishmentScheduler {
	return &ReplenishmentScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		log:           log,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (rs *ReplenishmentScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.log.Info().Msg("replenishment scheduler disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run()

	rs.log.Info().Dur("interval", rs.CheckInterval).Msg("replenishment scheduler started")
}

// Stop stops the scheduler.
func (rs *ReplenishmentScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.log.Info().Msg("replenishment scheduler stopped")
	}
}

func (rs *ReplenishmentScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.checkAndGenerate()

	for {
		select {
		case <-rs.ticker.C:
			rs.checkAndGenerate()
		case <-rs.stop:
			return
		}
	}
}

func (rs *ReplenishmentScheduler) checkAndGenerate() {
	ctx := context.Background()

	req, count, err := rs.Handler.Requester.AutoGenerate(ctx)
	if err != nil {
		rs.log.Error().Err(err).Msg("replenishment check failed")
		return
	}
	if req == nil {
		rs.log.Debug().Msg("replenishment check: nothing below reorder point")
		return
	}
	rs.log.Info().
		Str("request", string(req.ID)).
		Int("items", count).
		Msg("auto-generated purchase request")
}
