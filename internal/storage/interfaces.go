package storage

import (
	"context"

	"ziwei-lab/internal/domain"
)

// ChartRecordStore provides access to chart_records storage.
type ChartRecordStore interface {
	// Insert adds a computed chart. Returns ErrDuplicateKey if chart_id exists.
	Insert(ctx context.Context, r *domain.ChartRecord) error

	// GetByID retrieves a chart by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, chartID string) (*domain.ChartRecord, error)

	// GetByBirthDate retrieves all charts computed for a birth date,
	// ordered by computed_at ASC.
	GetByBirthDate(ctx context.Context, birthDate string) ([]*domain.ChartRecord, error)

	// GetByTimeRange retrieves charts computed within [start, end] (inclusive, ms).
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.ChartRecord, error)
}

// AlmanacDayStore provides access to almanac_days storage.
type AlmanacDayStore interface {
	// Insert adds one almanac day. Returns ErrDuplicateKey if the date exists.
	Insert(ctx context.Context, d *domain.AlmanacDay) error

	// InsertBulk adds multiple days atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, days []*domain.AlmanacDay) error

	// GetByDate retrieves one day. Returns ErrNotFound if not exists.
	GetByDate(ctx context.Context, date string) (*domain.AlmanacDay, error)

	// GetByDateRange retrieves days within [from, to] (inclusive), ordered by date ASC.
	GetByDateRange(ctx context.Context, from, to string) ([]*domain.AlmanacDay, error)

	// GetLucky retrieves the lucky days within [from, to], ordered by date ASC.
	GetLucky(ctx context.Context, from, to string) ([]*domain.AlmanacDay, error)

	// GetBySolarTerm retrieves the days of a year carrying a solar term,
	// ordered by date ASC.
	GetBySolarTerm(ctx context.Context, year int) ([]*domain.AlmanacDay, error)
}
