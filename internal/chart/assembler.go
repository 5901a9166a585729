// Package chart assembles collaborator output and core computations into
// one immutable chart result, and orchestrates the full pipeline.
package chart

import (
	"time"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/idhash"
)

// AssembleInput carries every component's output into the assembler.
type AssembleInput struct {
	Birth         domain.BirthMoment
	Zodiac        string
	Constellation string
	Pillars       domain.FourPillars
	Palaces       []domain.Palace
	Periods       domain.PeriodSet
	Stars         domain.StarInfo
	Transforms    domain.TransformationInfo
}

// Assembler merges component outputs into a ChartResult. It performs no
// derivation beyond the static direction/meaning lookups and the void flag.
type Assembler struct {
	clock func() time.Time
}

// NewAssembler creates an assembler using the wall clock.
func NewAssembler() *Assembler {
	return &Assembler{clock: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock for deterministic output.
func (a *Assembler) WithClock(clock func() time.Time) *Assembler {
	a.clock = clock
	return a
}

// Assemble composes the final result value.
func (a *Assembler) Assemble(in AssembleInput) *domain.ChartResult {
	details := make([]domain.PalaceDetail, 0, len(in.Palaces))
	for _, p := range in.Palaces {
		details = append(details, domain.PalaceDetail{
			Palace:          p,
			Direction:       Direction(p.Position),
			Meaning:         Meaning(p.Name),
			IsVoid:          p.Void(),
			Transformations: in.Transforms.Palaces[p.Name],
		})
	}

	return &domain.ChartResult{
		ChartID:       idhash.ComputeChartID(in.Birth),
		Zodiac:        in.Zodiac,
		Constellation: in.Constellation,
		Pillars:       in.Pillars,
		Palaces:       details,
		Periods:       in.Periods,
		Stars:         in.Stars,
		Transforms:    in.Transforms,
		ComputedAt:    a.clock().UnixMilli(),
	}
}
