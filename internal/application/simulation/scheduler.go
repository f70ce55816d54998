package simulation

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/mars-sim/mars-sim-sub009/internal/application/common"
)

// Scheduler drives the tick service at a fixed real-time rate
type Scheduler struct {
	ticks    *TickService
	limiter  *rate.Limiter
	maxTicks int64
}

// NewScheduler paces pulses at ticksPerSecond; maxTicks 0 runs until the context ends.
// A non-positive rate runs as fast as possible.
func NewScheduler(ticks *TickService, ticksPerSecond float64, maxTicks int64) *Scheduler {
	limit := rate.Inf
	if ticksPerSecond > 0 {
		limit = rate.Limit(ticksPerSecond)
	}
	return &Scheduler{
		ticks:    ticks,
		limiter:  rate.NewLimiter(limit, 1),
		maxTicks: maxTicks,
	}
}

// Run pulses until ctx is cancelled or the tick budget is spent. Cancellation is not an error.
// Snapshot failures are logged and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := common.LoggerFromContext(ctx)
	for s.maxTicks == 0 || s.ticks.Ticks() < s.maxTicks {
		if err := s.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("tick limiter: %w", err)
		}
		if _, err := s.ticks.Pulse(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			logger.Log("ERROR", "Failed to persist mission snapshots", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return nil
}
