// Package stub provides an in-process calendar service for tests and
// offline mode. Conversion is an identity passthrough (civil fields are
// reused as lunar fields) overridable per date with canned moments;
// pillar computation uses the standard arithmetic rules.
package stub

import (
	"context"
	"fmt"
	"time"

	"ziwei-lab/internal/calendar"
	"ziwei-lab/internal/domain"
)

// Service implements calendar.Service without network access.
type Service struct {
	// Moments overrides conversion results per date string.
	Moments map[string]*domain.LunarMoment
}

// New creates a stub calendar service.
func New() *Service {
	return &Service{Moments: make(map[string]*domain.LunarMoment)}
}

// Compile-time interface check.
var _ calendar.Service = (*Service)(nil)

// ToLunarMoment returns the canned moment for the date if one is set,
// otherwise reuses the civil fields as lunar fields.
func (s *Service) ToLunarMoment(_ context.Context, date string, _ domain.DateType) (*domain.LunarMoment, error) {
	if m, ok := s.Moments[date]; ok {
		moment := *m
		return &moment, nil
	}

	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", calendar.ErrInvalidDate, date)
	}

	return &domain.LunarMoment{
		Year:    t.Year(),
		Month:   int(t.Month()),
		Day:     t.Day(),
		Display: lunarDisplay(t.Year(), int(t.Month()), t.Day()),
	}, nil
}

// FourPillars computes pillars with the standard cycle arithmetic,
// treating the moment's fields as a civil date (consistent with the
// stub's identity conversion).
func (s *Service) FourPillars(_ context.Context, moment *domain.LunarMoment, hour, _ int) (domain.FourPillars, error) {
	if moment == nil {
		return domain.FourPillars{}, calendar.ErrInvalidDate
	}

	yearStem := domain.YearStemIndex(moment.Year)
	yearBranch := domain.YearBranchIndex(moment.Year)

	// 五虎遁: the first lunar month's stem follows from the year stem.
	monthBranch := (moment.Month + 1) % 12
	monthStem := ((yearStem%5)*2 + 2 + moment.Month - 1) % 10

	dayStem, dayBranch := dayPillarIndices(moment.Year, moment.Month, moment.Day)

	// 五鼠遁: the hour stem follows from the day stem.
	hourBranch := domain.HourBranchIndex(hour)
	hourStem := ((dayStem%5)*2 + hourBranch) % 10

	return domain.FourPillars{
		Year:  domain.Pillar{Stem: domain.StemAt(yearStem), Branch: domain.BranchAt(yearBranch)},
		Month: domain.Pillar{Stem: domain.StemAt(monthStem), Branch: domain.BranchAt(monthBranch)},
		Day:   domain.Pillar{Stem: domain.StemAt(dayStem), Branch: domain.BranchAt(dayBranch)},
		Hour:  domain.Pillar{Stem: domain.StemAt(hourStem), Branch: domain.BranchAt(hourBranch)},
	}, nil
}

// dayPillarIndices derives the day pillar from the day count since the
// Unix epoch; 1970-01-01 was a 辛巳 day.
func dayPillarIndices(year, month, day int) (stem, branch int) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	days := int(t.Unix() / 86400)
	stem = ((7+days)%10 + 10) % 10
	branch = ((5+days)%12 + 12) % 12
	return stem, branch
}

var lunarMonthNames = []string{
	"正", "二", "三", "四", "五", "六", "七", "八", "九", "十", "冬", "腊",
}

var lunarDayNames = []string{
	"初一", "初二", "初三", "初四", "初五", "初六", "初七", "初八", "初九", "初十",
	"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
	"廿一", "廿二", "廿三", "廿四", "廿五", "廿六", "廿七", "廿八", "廿九", "三十",
}

func lunarDisplay(year, month, day int) string {
	pillar := string(domain.StemAt(domain.YearStemIndex(year))) + string(domain.BranchAt(domain.YearBranchIndex(year)))
	if month < 1 || month > 12 || day < 1 || day > 30 {
		return pillar + "年"
	}
	return fmt.Sprintf("%s年%s月%s", pillar, lunarMonthNames[month-1], lunarDayNames[day-1])
}
