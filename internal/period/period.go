// Package period derives the six period granularities of a chart: the
// decade-scale major sequence plus the minor/annual/monthly/daily/hourly
// markers. All rules are pure functions of the birth moment's cycle
// position, the palace ring and the as-of instant.
package period

import (
	"errors"
	"fmt"
	"time"

	"ziwei-lab/internal/domain"
)

// ErrNoLifePalace is returned when the palace set lacks the anchor palace.
var ErrNoLifePalace = errors.New("life palace not found in chart")

// LifePalaceName anchors all marker walks.
const LifePalaceName = "命宫"

// ActiveMajor selects the major period covering age: inclusive start,
// exclusive end. An age outside every period falls back to the first
// period instead of failing; the collaborator owns the period table and
// a mismatch must not invalidate an otherwise good chart.
func ActiveMajor(majors []domain.LuckPeriod, age int) domain.LuckPeriod {
	for _, p := range majors {
		if age >= p.StartAge && age < p.EndAge {
			return p
		}
	}
	if len(majors) > 0 {
		return majors[0]
	}
	return domain.LuckPeriod{}
}

// MinorPeriod is the single-age marker (小限). The walk starts from the
// life palace offset by the birth-year branch and advances one palace per
// year of age, forward for men and backward for women.
func MinorPeriod(birth domain.BirthMoment, palaces []domain.Palace, age int) domain.LuckPeriod {
	anchor := lifeIndex(palaces)
	step := anchor + domain.YearBranchIndex(birth.Year)
	if birth.Gender == domain.GenderFemale {
		step -= age
	} else {
		step += age
	}
	return marker(palaces, step, age, fmt.Sprintf("%d岁", age))
}

// AnnualPeriod is the flow-year marker (流年): the life palace offset by
// the as-of year's branch position.
func AnnualPeriod(palaces []domain.Palace, asOf time.Time, age int) domain.LuckPeriod {
	idx := lifeIndex(palaces) + domain.YearBranchIndex(asOf.Year())
	label := fmt.Sprintf("%d年%s", asOf.Year(), yearPillarOf(asOf.Year()))
	return marker(palaces, idx, age, label)
}

// MonthlyPeriod walks month-1 palaces on from the annual anchor.
func MonthlyPeriod(palaces []domain.Palace, asOf time.Time, age int) domain.LuckPeriod {
	idx := lifeIndex(palaces) + domain.YearBranchIndex(asOf.Year()) + int(asOf.Month()) - 1
	return marker(palaces, idx, age, fmt.Sprintf("%d月", int(asOf.Month())))
}

// DailyPeriod walks day-1 palaces on from the monthly anchor.
func DailyPeriod(palaces []domain.Palace, asOf time.Time, age int) domain.LuckPeriod {
	idx := lifeIndex(palaces) + domain.YearBranchIndex(asOf.Year()) + int(asOf.Month()) - 1 + asOf.Day() - 1
	return marker(palaces, idx, age, asOf.Format("2006-01-02"))
}

// HourlyPeriod walks the as-of hour's branch position on from the daily
// anchor.
func HourlyPeriod(palaces []domain.Palace, asOf time.Time, age int) domain.LuckPeriod {
	hourIdx := domain.HourBranchIndex(asOf.Hour())
	idx := lifeIndex(palaces) + domain.YearBranchIndex(asOf.Year()) + int(asOf.Month()) - 1 + asOf.Day() - 1 + hourIdx
	return marker(palaces, idx, age, string(domain.BranchAt(hourIdx))+"时")
}

// Synthesize produces the full period set. The major sequence comes from
// the chart-primitive collaborator and is passed through unchanged; only
// the active selection happens here. The five marker rules share no state
// and may run in any order.
func Synthesize(birth domain.BirthMoment, palaces []domain.Palace, majors []domain.LuckPeriod, asOf time.Time) (domain.PeriodSet, error) {
	if domain.PalaceByName(palaces, LifePalaceName) == nil {
		return domain.PeriodSet{}, ErrNoLifePalace
	}

	age := asOf.Year() - birth.Year

	return domain.PeriodSet{
		Major:       majors,
		ActiveMajor: ActiveMajor(majors, age),
		Minor:       MinorPeriod(birth, palaces, age),
		Annual:      AnnualPeriod(palaces, asOf, age),
		Monthly:     MonthlyPeriod(palaces, asOf, age),
		Daily:       DailyPeriod(palaces, asOf, age),
		Hourly:      HourlyPeriod(palaces, asOf, age),
	}, nil
}

// lifeIndex returns the 0-based ring index of the life palace.
// Callers run after Synthesize's presence check; a missing life palace
// here degrades to position 1 rather than panicking.
func lifeIndex(palaces []domain.Palace) int {
	if p := domain.PalaceByName(palaces, LifePalaceName); p != nil {
		return p.Position - 1
	}
	return 0
}

// marker builds a point-in-time LuckPeriod at cyclic ring index idx.
func marker(palaces []domain.Palace, idx, age int, label string) domain.LuckPeriod {
	pos := ((idx%domain.PalaceCount)+domain.PalaceCount)%domain.PalaceCount + 1
	name := ""
	if p := domain.PalaceAtPosition(palaces, pos); p != nil {
		name = p.Name
	}
	return domain.LuckPeriod{StartAge: age, EndAge: age, Palace: name, Label: label}
}

func yearPillarOf(year int) string {
	return string(domain.StemAt(domain.YearStemIndex(year))) + string(domain.BranchAt(domain.YearBranchIndex(year)))
}
