package calendar

import (
	"context"
	"errors"
	"fmt"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/rpcclient"
)

// Provider error codes on the calendar RPC surface.
const (
	codeInvalidDate = -32001
)

// Client implements Service against the remote calendar provider.
type Client struct {
	rpc *rpcclient.Client
}

// NewClient creates a calendar client for the given JSON-RPC endpoint.
func NewClient(endpoint string, opts ...rpcclient.Option) *Client {
	return &Client{rpc: rpcclient.New(endpoint, opts...)}
}

// Compile-time interface check.
var _ Service = (*Client)(nil)

type lunarMomentResult struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	LeapMonth bool   `json:"leapMonth"`
	Display   string `json:"display"`
}

// ToLunarMoment converts a date string via the provider.
func (c *Client) ToLunarMoment(ctx context.Context, date string, dateType domain.DateType) (*domain.LunarMoment, error) {
	params := map[string]string{
		"date":     date,
		"dateType": string(dateType),
	}

	var result lunarMomentResult
	if err := c.rpc.Call(ctx, "calendar.toLunarMoment", params, &result); err != nil {
		var rpcErr *rpcclient.Error
		if errors.As(err, &rpcErr) && rpcErr.Code == codeInvalidDate {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDate, rpcErr.Message)
		}
		return nil, fmt.Errorf("calendar.toLunarMoment: %w", err)
	}

	return &domain.LunarMoment{
		Year:      result.Year,
		Month:     result.Month,
		Day:       result.Day,
		LeapMonth: result.LeapMonth,
		Display:   result.Display,
	}, nil
}

type pillarResult struct {
	Stem   string `json:"stem"`
	Branch string `json:"branch"`
}

type fourPillarsResult struct {
	Year  pillarResult `json:"year"`
	Month pillarResult `json:"month"`
	Day   pillarResult `json:"day"`
	Hour  pillarResult `json:"hour"`
}

// FourPillars computes the pillars via the provider.
func (c *Client) FourPillars(ctx context.Context, moment *domain.LunarMoment, hour, minute int) (domain.FourPillars, error) {
	params := map[string]interface{}{
		"year":      moment.Year,
		"month":     moment.Month,
		"day":       moment.Day,
		"leapMonth": moment.LeapMonth,
		"hour":      hour,
		"minute":    minute,
	}

	var result fourPillarsResult
	if err := c.rpc.Call(ctx, "calendar.fourPillars", params, &result); err != nil {
		return domain.FourPillars{}, fmt.Errorf("calendar.fourPillars: %w", err)
	}

	pillars := domain.FourPillars{
		Year:  domain.Pillar{Stem: domain.Stem(result.Year.Stem), Branch: domain.Branch(result.Year.Branch)},
		Month: domain.Pillar{Stem: domain.Stem(result.Month.Stem), Branch: domain.Branch(result.Month.Branch)},
		Day:   domain.Pillar{Stem: domain.Stem(result.Day.Stem), Branch: domain.Branch(result.Day.Branch)},
		Hour:  domain.Pillar{Stem: domain.Stem(result.Hour.Stem), Branch: domain.Branch(result.Hour.Branch)},
	}

	for _, p := range []domain.Pillar{pillars.Year, pillars.Month, pillars.Day, pillars.Hour} {
		if !p.Stem.Valid() || !p.Branch.Valid() {
			return domain.FourPillars{}, fmt.Errorf("calendar.fourPillars: out-of-cycle pillar %q%q", p.Stem, p.Branch)
		}
	}
	return pillars, nil
}
