package ephemeris

import (
	"context"
	"errors"
	"fmt"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/rpcclient"
)

// Provider error codes on the ephemeris RPC surface.
const (
	codePlacementFailed = -32010
)

// Client implements Service against the remote ephemeris provider.
type Client struct {
	rpc *rpcclient.Client
}

// NewClient creates an ephemeris client for the given JSON-RPC endpoint.
func NewClient(endpoint string, opts ...rpcclient.Option) *Client {
	return &Client{rpc: rpcclient.New(endpoint, opts...)}
}

// Compile-time interface check.
var _ Service = (*Client)(nil)

type palaceResult struct {
	Name     string   `json:"name"`
	Position int      `json:"position"`
	Stars    []string `json:"stars"`
}

type periodResult struct {
	StartAge int    `json:"startAge"`
	EndAge   int    `json:"endAge"`
	Palace   string `json:"palace"`
	Label    string `json:"label"`
}

type rawChartResult struct {
	Palaces      []palaceResult `json:"palaces"`
	MajorPeriods []periodResult `json:"majorPeriods"`
}

// ComputeRawChart requests palace placement from the provider. A
// provider-side placement failure maps to ErrChartPrimitive.
func (c *Client) ComputeRawChart(ctx context.Context, req ChartRequest) (*RawChart, error) {
	params := map[string]interface{}{
		"year":   req.Year,
		"month":  req.Month,
		"day":    req.Day,
		"hour":   req.Hour,
		"minute": req.Minute,
		"gender": string(req.Gender),
	}

	var result rawChartResult
	if err := c.rpc.Call(ctx, "ephemeris.rawChart", params, &result); err != nil {
		var rpcErr *rpcclient.Error
		if errors.As(err, &rpcErr) && rpcErr.Code == codePlacementFailed {
			return nil, fmt.Errorf("%w: %s", ErrChartPrimitive, rpcErr.Message)
		}
		return nil, fmt.Errorf("ephemeris.rawChart: %w", err)
	}

	if len(result.Palaces) != domain.PalaceCount {
		return nil, fmt.Errorf("%w: provider returned %d palaces", ErrChartPrimitive, len(result.Palaces))
	}

	chart := &RawChart{}
	for _, p := range result.Palaces {
		chart.Palaces = append(chart.Palaces, domain.Palace{
			Name:     p.Name,
			Position: p.Position,
			Stars:    p.Stars,
		})
	}
	for _, p := range result.MajorPeriods {
		chart.MajorPeriods = append(chart.MajorPeriods, domain.LuckPeriod{
			StartAge: p.StartAge,
			EndAge:   p.EndAge,
			Palace:   p.Palace,
			Label:    p.Label,
		})
	}
	return chart, nil
}
