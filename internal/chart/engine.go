package chart

import (
	"context"
	"fmt"
	"time"

	"ziwei-lab/internal/calendar"
	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/ephemeris"
	"ziwei-lab/internal/period"
	"ziwei-lab/internal/stars"
	"ziwei-lab/internal/transform"
)

// ComputeRequest is one chart computation call.
type ComputeRequest struct {
	Date     string // as submitted, "2006-01-02"
	DateType domain.DateType
	Hour     int
	Minute   int
	Gender   domain.Gender
}

// Engine runs the full pipeline: calendar conversion, chart-primitive
// placement, then the pure core computations. Both collaborator calls
// complete before any core computation starts; core stages are pure and
// synchronous.
type Engine struct {
	cal       calendar.Service
	eph       ephemeris.Service
	assembler *Assembler
	clock     func() time.Time
}

// NewEngine creates a chart engine over the two collaborators.
func NewEngine(cal calendar.Service, eph ephemeris.Service) *Engine {
	return &Engine{
		cal:       cal,
		eph:       eph,
		assembler: NewAssembler(),
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock for deterministic output. The clock
// drives both the as-of instant of the period markers and the result
// timestamp.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	e.assembler = e.assembler.WithClock(clock)
	return e
}

// Compute produces the chart for a birth request. Collaborator failures
// propagate wrapped with the failing stage; no partial result is ever
// returned alongside an error.
func (e *Engine) Compute(ctx context.Context, req ComputeRequest) (*domain.ChartResult, error) {
	moment, err := e.cal.ToLunarMoment(ctx, req.Date, req.DateType)
	if err != nil {
		return nil, fmt.Errorf("calendar conversion: %w", err)
	}

	pillars, err := e.cal.FourPillars(ctx, moment, req.Hour, req.Minute)
	if err != nil {
		return nil, fmt.Errorf("four pillars: %w", err)
	}

	birth := domain.BirthMoment{
		Year:   moment.Year,
		Month:  moment.Month,
		Day:    moment.Day,
		Hour:   req.Hour,
		Minute: req.Minute,
		Gender: req.Gender,
	}

	raw, err := e.eph.ComputeRawChart(ctx, ephemeris.ChartRequest{
		Year:   birth.Year,
		Month:  birth.Month,
		Day:    birth.Day,
		Hour:   birth.Hour,
		Minute: birth.Minute,
		Gender: birth.Gender,
	})
	if err != nil {
		return nil, fmt.Errorf("chart primitive: %w", err)
	}

	asOf := e.clock()

	periods, err := period.Synthesize(birth, raw.Palaces, raw.MajorPeriods, asOf)
	if err != nil {
		return nil, fmt.Errorf("period synthesis: %w", err)
	}

	starInfo := stars.Classify(raw.Palaces)
	transforms := transform.Resolve(pillars, raw.Palaces)

	solarMonth, solarDay := solarFields(req, moment)

	return e.assembler.Assemble(AssembleInput{
		Birth:         birth,
		Zodiac:        calendar.Zodiac(moment.Year),
		Constellation: calendar.Constellation(solarMonth, solarDay),
		Pillars:       pillars,
		Palaces:       raw.Palaces,
		Periods:       periods,
		Stars:         starInfo,
		Transforms:    transforms,
	}), nil
}

// solarFields picks the month/day pair for the constellation lookup: the
// submitted date when it is already solar, the converted moment otherwise.
func solarFields(req ComputeRequest, moment *domain.LunarMoment) (int, int) {
	if req.DateType == domain.DateTypeSolar {
		var year, month, day int
		if _, err := fmt.Sscanf(req.Date, "%d-%d-%d", &year, &month, &day); err == nil {
			return month, day
		}
	}
	return moment.Month, moment.Day
}
