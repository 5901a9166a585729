// Package stub provides an in-process ephemeris service. Placement uses
// simplified deterministic rules: good enough for offline mode and for
// exercising every downstream contract, with no claim of school-accurate
// star positions.
package stub

import (
	"context"
	"fmt"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/ephemeris"
)

// Service implements ephemeris.Service without network access.
type Service struct {
	// Charts overrides placement results per request.
	Charts map[ephemeris.ChartRequest]*ephemeris.RawChart
}

// New creates a stub ephemeris service.
func New() *Service {
	return &Service{Charts: make(map[ephemeris.ChartRequest]*ephemeris.RawChart)}
}

// Compile-time interface check.
var _ ephemeris.Service = (*Service)(nil)

// ComputeRawChart returns the canned chart for the request if one is set,
// otherwise generates a deterministic placement.
func (s *Service) ComputeRawChart(_ context.Context, req ephemeris.ChartRequest) (*ephemeris.RawChart, error) {
	if chart, ok := s.Charts[req]; ok {
		return chart, nil
	}
	if req.Month < 1 || req.Month > 12 || req.Day < 1 || req.Day > 30 {
		return nil, fmt.Errorf("%w: month=%d day=%d", ephemeris.ErrChartPrimitive, req.Month, req.Day)
	}
	return generate(req), nil
}

// generate derives the palace ring, star placement and major periods.
func generate(req ephemeris.ChartRequest) *ephemeris.RawChart {
	hourBranch := domain.HourBranchIndex(req.Hour)
	yearStem := domain.YearStemIndex(req.Year)
	yearBranch := domain.YearBranchIndex(req.Year)

	// Life palace from birth month counted back by the hour branch.
	lifeIdx := mod12(req.Month - 1 - hourBranch)

	palaces := make([]domain.Palace, domain.PalaceCount)
	for i := 0; i < domain.PalaceCount; i++ {
		palaces[i] = domain.Palace{
			Name:     domain.PalaceNames[mod12(i-lifeIdx)],
			Position: i + 1,
		}
	}

	place := func(idx int, star string) {
		p := &palaces[mod12(idx)]
		p.Stars = append(p.Stars, star)
	}

	// 紫微 chain and the 天府 chain mirrored against it.
	ziwei := mod12(req.Day - 1 + req.Hour/2)
	tianfu := mod12(10 - ziwei)
	place(ziwei, "紫微")
	place(ziwei-1, "天机")
	place(ziwei-3, "太阳")
	place(ziwei-4, "武曲")
	place(ziwei-5, "天同")
	place(ziwei-8, "廉贞")
	place(tianfu, "天府")
	place(tianfu+1, "太阴")
	place(tianfu+2, "贪狼")
	place(tianfu+3, "巨门")
	place(tianfu+4, "天相")
	place(tianfu+5, "天梁")
	place(tianfu+6, "七杀")
	place(tianfu+10, "破军")

	// Hour- and month-anchored lucky stars.
	place(10-hourBranch, "文昌")
	place(4+hourBranch, "文曲")
	place(4+req.Month-1, "左辅")
	place(10-(req.Month-1), "右弼")

	// Year-stem anchored stars.
	lucun := lucunByStem[yearStem]
	place(lucun, "禄存")
	place(lucun+1, "擎羊")
	place(lucun-1, "陀罗")
	place(kuiByStem[yearStem], "天魁")
	place(yueByStem[yearStem], "天钺")
	place(11-yearBranch, "天马")

	// Remaining malefics.
	place(yearBranch+hourBranch, "火星")
	place(10+yearBranch-hourBranch, "铃星")
	place(11-hourBranch, "地空")
	place(11+hourBranch, "地劫")

	return &ephemeris.RawChart{
		Palaces:      palaces,
		MajorPeriods: majorPeriods(req, lifeIdx, yearStem),
	}
}

// majorPeriods builds twelve decade periods. The starting age follows
// the year stem (a stand-in for the five-element bureau) and the walk
// direction follows gender.
func majorPeriods(req ephemeris.ChartRequest, lifeIdx, yearStem int) []domain.LuckPeriod {
	start := 2 + yearStem%5

	periods := make([]domain.LuckPeriod, 0, domain.PalaceCount)
	for i := 0; i < domain.PalaceCount; i++ {
		idx := lifeIdx + i
		if req.Gender == domain.GenderFemale {
			idx = lifeIdx - i
		}
		name := domain.PalaceNames[mod12(mod12(idx)-lifeIdx)]
		periods = append(periods, domain.LuckPeriod{
			StartAge: start + i*10,
			EndAge:   start + (i+1)*10,
			Palace:   name,
			Label:    fmt.Sprintf("第%d大限", i+1),
		})
	}
	return periods
}

// 禄存 branch position by year stem.
var lucunByStem = [10]int{2, 3, 5, 6, 5, 6, 8, 9, 11, 0}

// 天魁 / 天钺 branch positions by year stem.
var kuiByStem = [10]int{1, 0, 11, 11, 1, 0, 1, 6, 3, 3}
var yueByStem = [10]int{7, 8, 9, 9, 7, 8, 7, 2, 5, 5}

func mod12(i int) int {
	return ((i % 12) + 12) % 12
}
