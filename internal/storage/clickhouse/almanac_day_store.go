package clickhouse

import (
	"context"
	"fmt"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/storage"
)

// AlmanacDayStore implements storage.AlmanacDayStore using ClickHouse.
type AlmanacDayStore struct {
	conn *Conn
}

// NewAlmanacDayStore creates a new AlmanacDayStore.
func NewAlmanacDayStore(conn *Conn) *AlmanacDayStore {
	return &AlmanacDayStore{conn: conn}
}

// Compile-time interface check.
var _ storage.AlmanacDayStore = (*AlmanacDayStore)(nil)

const almanacColumns = `
	date, lunar_date,
	year_pillar, month_pillar, day_pillar,
	solar_term, lucky, suitable, avoid, fetched_at
`

// Insert adds a single day. Returns ErrDuplicateKey if the date already exists.
func (s *AlmanacDayStore) Insert(ctx context.Context, d *domain.AlmanacDay) error {
	return s.InsertBulk(ctx, []*domain.AlmanacDay{d})
}

// InsertBulk adds multiple days. Fails entire batch on duplicate.
func (s *AlmanacDayStore) InsertBulk(ctx context.Context, days []*domain.AlmanacDay) error {
	if len(days) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{})
	for _, d := range days {
		if _, exists := seen[d.Date]; exists {
			return storage.ErrDuplicateKey
		}
		seen[d.Date] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, d := range days {
		exists, err := s.exists(ctx, d.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO almanac_days (`+almanacColumns+`)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, d := range days {
		err = batch.Append(
			d.Date, d.LunarDate,
			d.YearPillar.String(), d.MonthPillar.String(), d.DayPillar.String(),
			d.SolarTerm, boolToUint8(d.Lucky), d.Suitable, d.Avoid, uint64(d.FetchedAt),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByDate retrieves the day for a civil date. Returns ErrNotFound if absent.
func (s *AlmanacDayStore) GetByDate(ctx context.Context, date string) (*domain.AlmanacDay, error) {
	query := `
		SELECT ` + almanacColumns + `
		FROM almanac_days
		WHERE date = ?
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query by date: %w", err)
	}
	defer rows.Close()

	days, err := scanAlmanacDays(rows)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, storage.ErrNotFound
	}
	return days[0], nil
}

// GetByDateRange retrieves days within [from, to] (inclusive), ordered by date ASC.
func (s *AlmanacDayStore) GetByDateRange(ctx context.Context, from, to string) ([]*domain.AlmanacDay, error) {
	query := `
		SELECT ` + almanacColumns + `
		FROM almanac_days
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	defer rows.Close()

	return scanAlmanacDays(rows)
}

// GetLucky retrieves auspicious days within [from, to], ordered by date ASC.
func (s *AlmanacDayStore) GetLucky(ctx context.Context, from, to string) ([]*domain.AlmanacDay, error) {
	query := `
		SELECT ` + almanacColumns + `
		FROM almanac_days
		WHERE date >= ? AND date <= ? AND lucky = 1
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query lucky days: %w", err)
	}
	defer rows.Close()

	return scanAlmanacDays(rows)
}

// GetBySolarTerm retrieves the days of a year that begin a solar term,
// ordered by date ASC.
func (s *AlmanacDayStore) GetBySolarTerm(ctx context.Context, year int) ([]*domain.AlmanacDay, error) {
	query := `
		SELECT ` + almanacColumns + `
		FROM almanac_days
		WHERE date >= ? AND date <= ? AND solar_term IS NOT NULL
		ORDER BY date ASC
	`

	from := fmt.Sprintf("%04d-01-01", year)
	to := fmt.Sprintf("%04d-12-31", year)

	rows, err := s.conn.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query solar terms: %w", err)
	}
	defer rows.Close()

	return scanAlmanacDays(rows)
}

// exists checks if a day with the given date exists.
func (s *AlmanacDayStore) exists(ctx context.Context, date string) (bool, error) {
	query := `
		SELECT count(*) FROM almanac_days
		WHERE date = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanAlmanacDays scans multiple rows into a slice.
func scanAlmanacDays(rows chRows) ([]*domain.AlmanacDay, error) {
	var days []*domain.AlmanacDay

	for rows.Next() {
		var d domain.AlmanacDay
		var yearPillar, monthPillar, dayPillar string
		var lucky uint8
		var fetchedAt uint64

		err := rows.Scan(
			&d.Date, &d.LunarDate,
			&yearPillar, &monthPillar, &dayPillar,
			&d.SolarTerm, &lucky, &d.Suitable, &d.Avoid, &fetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan almanac day row: %w", err)
		}

		d.YearPillar = domain.ParsePillar(yearPillar)
		d.MonthPillar = domain.ParsePillar(monthPillar)
		d.DayPillar = domain.ParsePillar(dayPillar)
		d.Lucky = lucky == 1
		d.FetchedAt = int64(fetchedAt)

		days = append(days, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate almanac day rows: %w", err)
	}

	return days, nil
}

// boolToUint8 converts a bool to the UInt8 form ClickHouse stores.
func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
