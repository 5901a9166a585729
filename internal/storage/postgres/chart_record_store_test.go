package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/storage"
	pgstore "ziwei-lab/internal/storage/postgres"
)

func testChartRecord(chartID string) *domain.ChartRecord {
	return &domain.ChartRecord{
		ChartID:    chartID,
		BirthDate:  "1990-05-15",
		DateType:   domain.DateTypeSolar,
		Hour:       14,
		Minute:     30,
		Gender:     domain.GenderFemale,
		Zodiac:     "马",
		Payload:    []byte(`{"chartId":"` + chartID + `"}`),
		ComputedAt: 1700000000000,
	}
}

func TestChartRecordStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewChartRecordStore(pool)
	ctx := context.Background()

	record := testChartRecord("chart-001")

	err := store.Insert(ctx, record)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "chart-001")
	require.NoError(t, err)

	assert.Equal(t, record.ChartID, retrieved.ChartID)
	assert.Equal(t, record.BirthDate, retrieved.BirthDate)
	assert.Equal(t, record.DateType, retrieved.DateType)
	assert.Equal(t, record.Hour, retrieved.Hour)
	assert.Equal(t, record.Minute, retrieved.Minute)
	assert.Equal(t, record.Gender, retrieved.Gender)
	assert.Equal(t, record.Zodiac, retrieved.Zodiac)
	assert.JSONEq(t, string(record.Payload), string(retrieved.Payload))
	assert.Equal(t, record.ComputedAt, retrieved.ComputedAt)
	assert.NotZero(t, retrieved.CreatedAt)
}

func TestChartRecordStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewChartRecordStore(pool)
	ctx := context.Background()

	record := testChartRecord("chart-dup")

	err := store.Insert(ctx, record)
	require.NoError(t, err)

	err = store.Insert(ctx, record)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestChartRecordStore_InsertInvalid(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewChartRecordStore(pool)
	ctx := context.Background()

	err := store.Insert(ctx, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.Insert(ctx, &domain.ChartRecord{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestChartRecordStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewChartRecordStore(pool)
	ctx := context.Background()

	_, err := store.GetByID(ctx, "nonexistent-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChartRecordStore_GetByBirthDate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewChartRecordStore(pool)
	ctx := context.Background()

	// Two charts for the same birth date, out of order, plus an unrelated one
	second := testChartRecord("chart-bd-2")
	second.ComputedAt = 1700000002000
	require.NoError(t, store.Insert(ctx, second))

	first := testChartRecord("chart-bd-1")
	first.ComputedAt = 1700000001000
	require.NoError(t, store.Insert(ctx, first))

	other := testChartRecord("chart-other")
	other.BirthDate = "1984-02-02"
	require.NoError(t, store.Insert(ctx, other))

	records, err := store.GetByBirthDate(ctx, "1990-05-15")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Ordered by computed_at ASC
	assert.Equal(t, "chart-bd-1", records[0].ChartID)
	assert.Equal(t, "chart-bd-2", records[1].ChartID)
}

func TestChartRecordStore_GetByBirthDateEmpty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewChartRecordStore(pool)
	ctx := context.Background()

	records, err := store.GetByBirthDate(ctx, "2001-01-01")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestChartRecordStore_GetByTimeRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewChartRecordStore(pool)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		r := testChartRecord(fmt.Sprintf("chart-tr-%d", i))
		r.ComputedAt = 1700000000000 + int64(i)*1000
		require.NoError(t, store.Insert(ctx, r))
	}

	// Inclusive bounds
	records, err := store.GetByTimeRange(ctx, 1700000001000, 1700000003000)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "chart-tr-1", records[0].ChartID)
	assert.Equal(t, "chart-tr-3", records[2].ChartID)
}
