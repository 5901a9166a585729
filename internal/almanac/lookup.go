package almanac

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/storage"
)

// ErrBadDate is returned when a lookup date is not a valid "2006-01-02" form.
var ErrBadDate = errors.New("bad almanac date")

// Lookup serves read queries over the accumulated almanac days.
type Lookup struct {
	store storage.AlmanacDayStore
}

// NewLookup creates a new Lookup over the given store.
func NewLookup(store storage.AlmanacDayStore) *Lookup {
	return &Lookup{store: store}
}

// Day returns the almanac record for one civil date.
// Returns storage.ErrNotFound when the day has not been ingested.
func (l *Lookup) Day(ctx context.Context, date string) (*domain.AlmanacDay, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	return l.store.GetByDate(ctx, date)
}

// Range returns the days within [from, to], ordered by date.
func (l *Lookup) Range(ctx context.Context, from, to string) ([]*domain.AlmanacDay, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return l.store.GetByDateRange(ctx, from, to)
}

// LuckyDays returns the auspicious days within [from, to], ordered by date.
func (l *Lookup) LuckyDays(ctx context.Context, from, to string) ([]*domain.AlmanacDay, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return l.store.GetLucky(ctx, from, to)
}

// SolarTerms returns the days of a year that begin a solar term.
func (l *Lookup) SolarTerms(ctx context.Context, year int) ([]*domain.AlmanacDay, error) {
	if year < 1 {
		return nil, fmt.Errorf("%w: year %d", ErrBadDate, year)
	}
	return l.store.GetBySolarTerm(ctx, year)
}

func checkDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: %q", ErrBadDate, date)
	}
	return nil
}

func checkRange(from, to string) error {
	if err := checkDate(from); err != nil {
		return err
	}
	if err := checkDate(to); err != nil {
		return err
	}
	if from > to {
		return fmt.Errorf("%w: range %q after %q", ErrBadDate, from, to)
	}
	return nil
}
