package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/storage"
)

// ChartRecordStore implements storage.ChartRecordStore using PostgreSQL.
type ChartRecordStore struct {
	pool *Pool
}

// NewChartRecordStore creates a new ChartRecordStore.
func NewChartRecordStore(pool *Pool) *ChartRecordStore {
	return &ChartRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ChartRecordStore = (*ChartRecordStore)(nil)

// Insert adds a computed chart. Returns ErrDuplicateKey if chart_id exists.
func (s *ChartRecordStore) Insert(ctx context.Context, r *domain.ChartRecord) error {
	if r == nil || r.ChartID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO chart_records (
			chart_id, birth_date, date_type, hour, minute, gender, zodiac, payload, computed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	createdAt := r.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().UnixMilli()
	}

	_, err := s.pool.Exec(ctx, query,
		r.ChartID,
		r.BirthDate,
		string(r.DateType),
		r.Hour,
		r.Minute,
		string(r.Gender),
		r.Zodiac,
		r.Payload,
		r.ComputedAt,
		createdAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert chart record: %w", err)
	}
	return nil
}

const chartRecordColumns = `chart_id, birth_date, date_type, hour, minute, gender, zodiac, payload, computed_at, created_at`

// GetByID retrieves a chart by its ID. Returns ErrNotFound if not exists.
func (s *ChartRecordStore) GetByID(ctx context.Context, chartID string) (*domain.ChartRecord, error) {
	query := `
		SELECT ` + chartRecordColumns + `
		FROM chart_records
		WHERE chart_id = $1
	`

	row := s.pool.QueryRow(ctx, query, chartID)
	r, err := scanChartRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get chart record by id: %w", err)
	}
	return r, nil
}

// GetByBirthDate retrieves all charts for a birth date, ordered by computed_at ASC.
func (s *ChartRecordStore) GetByBirthDate(ctx context.Context, birthDate string) ([]*domain.ChartRecord, error) {
	query := `
		SELECT ` + chartRecordColumns + `
		FROM chart_records
		WHERE birth_date = $1
		ORDER BY computed_at ASC, chart_id ASC
	`

	rows, err := s.pool.Query(ctx, query, birthDate)
	if err != nil {
		return nil, fmt.Errorf("get chart records by birth date: %w", err)
	}
	defer rows.Close()

	return scanChartRecords(rows)
}

// GetByTimeRange retrieves charts computed within [start, end] (inclusive).
func (s *ChartRecordStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.ChartRecord, error) {
	query := `
		SELECT ` + chartRecordColumns + `
		FROM chart_records
		WHERE computed_at >= $1 AND computed_at <= $2
		ORDER BY computed_at ASC, chart_id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get chart records by time range: %w", err)
	}
	defer rows.Close()

	return scanChartRecords(rows)
}

// scanChartRecord scans one row into a ChartRecord.
func scanChartRecord(row pgx.Row) (*domain.ChartRecord, error) {
	var r domain.ChartRecord
	var dateType, gender string

	err := row.Scan(
		&r.ChartID,
		&r.BirthDate,
		&dateType,
		&r.Hour,
		&r.Minute,
		&gender,
		&r.Zodiac,
		&r.Payload,
		&r.ComputedAt,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.DateType = domain.DateType(dateType)
	r.Gender = domain.Gender(gender)
	return &r, nil
}

func scanChartRecords(rows pgx.Rows) ([]*domain.ChartRecord, error) {
	var result []*domain.ChartRecord
	for rows.Next() {
		r, err := scanChartRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chart record: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chart records: %w", err)
	}
	return result, nil
}
