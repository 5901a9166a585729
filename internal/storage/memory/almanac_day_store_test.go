package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/storage"
)

func testDay(date string, lucky bool, term string) *domain.AlmanacDay {
	d := &domain.AlmanacDay{
		Date:      date,
		LunarDate: "丙午年某日",
		DayPillar: domain.Pillar{Stem: "甲", Branch: "子"},
		Lucky:     lucky,
		Suitable:  []string{"祭祀", "出行"},
		Avoid:     []string{"动土"},
	}
	if term != "" {
		d.SolarTerm = &term
	}
	return d
}

func TestAlmanacDayStore_InsertAndGet(t *testing.T) {
	store := NewAlmanacDayStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testDay("2026-02-04", true, "立春")))

	got, err := store.GetByDate(ctx, "2026-02-04")
	require.NoError(t, err)
	require.NotNil(t, got.SolarTerm)
	assert.Equal(t, "立春", *got.SolarTerm)

	assert.ErrorIs(t, store.Insert(ctx, testDay("2026-02-04", false, "")), storage.ErrDuplicateKey)

	_, err = store.GetByDate(ctx, "2026-02-05")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAlmanacDayStore_InsertBulkAtomic(t *testing.T) {
	store := NewAlmanacDayStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testDay("2026-02-03", false, "")))

	// Batch containing an existing date fails entirely.
	batch := []*domain.AlmanacDay{
		testDay("2026-02-01", false, ""),
		testDay("2026-02-03", false, ""),
	}
	assert.ErrorIs(t, store.InsertBulk(ctx, batch), storage.ErrDuplicateKey)

	_, err := store.GetByDate(ctx, "2026-02-01")
	assert.ErrorIs(t, err, storage.ErrNotFound, "failed batch must not partially apply")

	// Intra-batch duplicate also fails.
	dup := []*domain.AlmanacDay{
		testDay("2026-03-01", false, ""),
		testDay("2026-03-01", false, ""),
	}
	assert.ErrorIs(t, store.InsertBulk(ctx, dup), storage.ErrDuplicateKey)
}

func TestAlmanacDayStore_RangeQueries(t *testing.T) {
	store := NewAlmanacDayStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.AlmanacDay{
		testDay("2026-02-01", false, ""),
		testDay("2026-02-04", true, "立春"),
		testDay("2026-02-10", true, ""),
		testDay("2026-03-06", false, "惊蛰"),
		testDay("2025-12-22", true, "冬至"),
	}))

	days, err := store.GetByDateRange(ctx, "2026-02-01", "2026-02-28")
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "2026-02-01", days[0].Date, "ordered by date ASC")

	lucky, err := store.GetLucky(ctx, "2026-02-01", "2026-12-31")
	require.NoError(t, err)
	require.Len(t, lucky, 2)
	assert.True(t, lucky[0].Lucky)

	terms, err := store.GetBySolarTerm(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "立春", *terms[0].SolarTerm)
	assert.Equal(t, "惊蛰", *terms[1].SolarTerm)
}

func TestAlmanacDayStore_CopyIsolation(t *testing.T) {
	store := NewAlmanacDayStore()
	ctx := context.Background()

	day := testDay("2026-02-04", true, "立春")
	require.NoError(t, store.Insert(ctx, day))

	day.Suitable[0] = "mutated"
	got, err := store.GetByDate(ctx, "2026-02-04")
	require.NoError(t, err)
	assert.Equal(t, "祭祀", got.Suitable[0])
}
