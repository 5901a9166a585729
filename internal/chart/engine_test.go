package chart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ziwei-lab/internal/calendar"
	calstub "ziwei-lab/internal/calendar/stub"
	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/ephemeris"
	ephstub "ziwei-lab/internal/ephemeris/stub"
)

// scenarioPalaces builds a 12-palace ring with 紫微/天府 in 命宫 and every
// other palace void.
func scenarioPalaces() []domain.Palace {
	palaces := make([]domain.Palace, 12)
	for i, name := range domain.PalaceNames {
		palaces[i] = domain.Palace{Name: name, Position: i + 1}
	}
	palaces[0].Stars = []string{"紫微", "天府"}
	return palaces
}

func TestEngine_Scenario19900515(t *testing.T) {
	cal := calstub.New()
	eph := ephstub.New()
	eph.Charts[ephemeris.ChartRequest{Year: 1990, Month: 5, Day: 15, Hour: 8, Minute: 30, Gender: domain.GenderMale}] = &ephemeris.RawChart{
		Palaces: scenarioPalaces(),
		MajorPeriods: []domain.LuckPeriod{
			{StartAge: 4, EndAge: 14, Palace: "命宫"},
			{StartAge: 14, EndAge: 24, Palace: "兄弟宫"},
			{StartAge: 24, EndAge: 34, Palace: "夫妻宫"},
			{StartAge: 34, EndAge: 44, Palace: "子女宫"},
		},
	}

	fixed := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	engine := NewEngine(cal, eph).WithClock(func() time.Time { return fixed })

	result, err := engine.Compute(context.Background(), ComputeRequest{
		Date:     "1990-05-15",
		DateType: domain.DateTypeSolar,
		Hour:     8,
		Minute:   30,
		Gender:   domain.GenderMale,
	})
	require.NoError(t, err)

	// Both fixture stars are main stars and land in 命宫.
	assert.Equal(t, []string{"紫微", "天府"}, result.Stars.MainStars["命宫"])
	assert.Equal(t, "命宫", result.Stars.KeyStarsLocation["紫微"])

	// Every palace without stars is flagged void.
	for _, p := range result.Palaces {
		assert.Equal(t, len(p.Stars) == 0, p.IsVoid, "palace %s", p.Name)
	}

	// Age 36 in 2026 falls in the 34-44 decade.
	assert.Equal(t, "子女宫", result.Periods.ActiveMajor.Palace)
	assert.Len(t, result.Periods.Major, 4)

	assert.Equal(t, "马", result.Zodiac, "1990 is a horse year")
	assert.Equal(t, "金牛座", result.Constellation)
	assert.Equal(t, "庚午", result.Pillars.Year.String())
	assert.Equal(t, fixed.UnixMilli(), result.ComputedAt)
	assert.NotEmpty(t, result.ChartID)
}

func TestEngine_StubsEndToEnd(t *testing.T) {
	engine := NewEngine(calstub.New(), ephstub.New())

	result, err := engine.Compute(context.Background(), ComputeRequest{
		Date:     "1984-02-17",
		DateType: domain.DateTypeLunar,
		Hour:     23,
		Minute:   5,
		Gender:   domain.GenderFemale,
	})
	require.NoError(t, err)

	assert.Len(t, result.Palaces, 12)
	assert.Len(t, result.Periods.Major, 12)
	assert.Len(t, result.Transforms.YearStem.Transformations, 4)
	assert.Len(t, result.Transforms.DayStem.Transformations, 4)
	assert.NotEmpty(t, result.Periods.Hourly.Palace)
	assert.NotEmpty(t, result.Stars.KeyStarsLocation)
}

func TestEngine_InvalidDate(t *testing.T) {
	engine := NewEngine(calstub.New(), ephstub.New())

	_, err := engine.Compute(context.Background(), ComputeRequest{
		Date:     "15/05/1990",
		DateType: domain.DateTypeSolar,
		Gender:   domain.GenderMale,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
	assert.Contains(t, err.Error(), "calendar conversion")
}

func TestEngine_ChartPrimitiveFailure(t *testing.T) {
	cal := calstub.New()
	cal.Moments["2000-01-01"] = &domain.LunarMoment{Year: 2000, Month: 13, Day: 1}

	engine := NewEngine(cal, ephstub.New())

	_, err := engine.Compute(context.Background(), ComputeRequest{
		Date:     "2000-01-01",
		DateType: domain.DateTypeSolar,
		Gender:   domain.GenderMale,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ephemeris.ErrChartPrimitive)
	assert.Contains(t, err.Error(), "chart primitive")
}

func TestEngine_Idempotent(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	engine := NewEngine(calstub.New(), ephstub.New()).WithClock(func() time.Time { return fixed })

	req := ComputeRequest{Date: "1975-08-09", DateType: domain.DateTypeSolar, Hour: 14, Gender: domain.GenderMale}

	first, err := engine.Compute(context.Background(), req)
	require.NoError(t, err)
	second, err := engine.Compute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
