// Package almanac ingests the daily almanac feed into storage and
// serves lookups over the accumulated days.
package almanac

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/ephemeris"
	"ziwei-lab/internal/storage"
)

// Runner consumes the almanac feed and persists each day.
type Runner struct {
	source ephemeris.AlmanacSource
	store  storage.AlmanacDayStore
	logger *log.Logger

	daysIngested atomic.Int64
	daysSkipped  atomic.Int64
	lastDate     atomic.Value // string, last successfully stored date
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Source ephemeris.AlmanacSource
	Store  storage.AlmanacDayStore
	Logger *log.Logger
}

// NewRunner creates a new almanac runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Runner{
		source: opts.Source,
		store:  opts.Store,
		logger: logger,
	}
}

// Run subscribes to the feed and stores incoming days.
// It blocks until context is cancelled or the feed channel closes.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Println("Starting almanac runner...")

	days, err := r.source.Subscribe(ctx)
	if err != nil {
		return err
	}
	r.logger.Println("Subscribed to almanac feed")

	for {
		select {
		case <-ctx.Done():
			r.logger.Println("Almanac runner stopping...")
			return ctx.Err()

		case day, ok := <-days:
			if !ok {
				r.logger.Println("Almanac feed channel closed")
				return errors.New("almanac feed channel closed")
			}
			r.handleDay(ctx, &day)
		}
	}
}

// handleDay validates and stores one feed record.
func (r *Runner) handleDay(ctx context.Context, day *domain.AlmanacDay) {
	if day.Date == "" || !day.YearPillar.Valid() || !day.DayPillar.Valid() {
		r.daysSkipped.Add(1)
		r.logger.Printf("Skipping malformed almanac day: date=%q", day.Date)
		return
	}

	if err := r.store.Insert(ctx, day); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			// Re-delivery after reconnect is expected, not an error
			r.daysSkipped.Add(1)
			return
		}
		r.logger.Printf("Error storing almanac day %s: %v", day.Date, err)
		return
	}

	r.daysIngested.Add(1)
	r.lastDate.Store(day.Date)
}

// RunnerStats is a snapshot of the runner's counters.
type RunnerStats struct {
	DaysIngested int64
	DaysSkipped  int64
	LastDate     string
	CollectedAt  time.Time
}

// Stats returns current runner statistics.
func (r *Runner) Stats() RunnerStats {
	last, _ := r.lastDate.Load().(string)
	return RunnerStats{
		DaysIngested: r.daysIngested.Load(),
		DaysSkipped:  r.daysSkipped.Load(),
		LastDate:     last,
		CollectedAt:  time.Now(),
	}
}
