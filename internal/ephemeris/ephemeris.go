// Package ephemeris defines the chart-primitive collaborator contract:
// placement of the 12 palaces and their stars for a birth moment, the
// major-period table, and the streaming almanac feed.
package ephemeris

import (
	"context"
	"errors"

	"ziwei-lab/internal/domain"
)

// ErrChartPrimitive is returned when the provider cannot resolve the
// placement rules for a birth moment. Fatal, not retried.
var ErrChartPrimitive = errors.New("chart primitive failed")

// ChartRequest is a normalized birth moment submitted for placement.
type ChartRequest struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Gender domain.Gender
}

// RawChart is the provider's placement result: the full palace ring and
// the decade-scale major-period table. Both are consumed read-only by
// the core; the core never re-derives them.
type RawChart struct {
	Palaces      []domain.Palace
	MajorPeriods []domain.LuckPeriod
}

// Service computes raw charts. Implementations: the remote JSON-RPC
// client and the in-process stub.
type Service interface {
	ComputeRawChart(ctx context.Context, req ChartRequest) (*RawChart, error)
}

// AlmanacSource streams daily almanac records. The channel closes when
// the source shuts down.
type AlmanacSource interface {
	Subscribe(ctx context.Context) (<-chan domain.AlmanacDay, error)
}
