package stub

import (
	"context"
	"time"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/ephemeris"
)

// Feed implements ephemeris.AlmanacSource from generated records.
type Feed struct {
	Days []domain.AlmanacDay
}

// Compile-time interface check.
var _ ephemeris.AlmanacSource = (*Feed)(nil)

// NewFeed creates a stub feed covering n civil days from start.
func NewFeed(start time.Time, n int) *Feed {
	days := make([]domain.AlmanacDay, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, GenerateDay(start.AddDate(0, 0, i)))
	}
	return &Feed{Days: days}
}

// Subscribe replays the generated days and closes the channel.
func (f *Feed) Subscribe(ctx context.Context) (<-chan domain.AlmanacDay, error) {
	ch := make(chan domain.AlmanacDay, len(f.Days))
	go func() {
		defer close(ch)
		for _, day := range f.Days {
			select {
			case ch <- day:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// activity pools for suitable/avoid picks.
var activities = []string{
	"祭祀", "祈福", "出行", "嫁娶", "动土", "开市", "安床", "入宅",
	"修造", "纳采", "裁衣", "沐浴", "破土", "安葬", "移徙", "会友",
}

// approximate civil dates of the 24 solar terms.
var solarTerms = map[[2]int]string{
	{1, 6}: "小寒", {1, 20}: "大寒", {2, 4}: "立春", {2, 19}: "雨水",
	{3, 6}: "惊蛰", {3, 21}: "春分", {4, 5}: "清明", {4, 20}: "谷雨",
	{5, 6}: "立夏", {5, 21}: "小满", {6, 6}: "芒种", {6, 21}: "夏至",
	{7, 7}: "小暑", {7, 23}: "大暑", {8, 8}: "立秋", {8, 23}: "处暑",
	{9, 8}: "白露", {9, 23}: "秋分", {10, 8}: "寒露", {10, 23}: "霜降",
	{11, 7}: "立冬", {11, 22}: "小雪", {12, 7}: "大雪", {12, 22}: "冬至",
}

// GenerateDay builds the deterministic almanac record for one civil day.
func GenerateDay(t time.Time) domain.AlmanacDay {
	days := int(t.Unix() / 86400)
	dayStem := ((7+days)%10 + 10) % 10
	dayBranch := ((5+days)%12 + 12) % 12

	day := domain.AlmanacDay{
		Date: t.Format("2006-01-02"),
		YearPillar: domain.Pillar{
			Stem:   domain.StemAt(domain.YearStemIndex(t.Year())),
			Branch: domain.BranchAt(domain.YearBranchIndex(t.Year())),
		},
		MonthPillar: domain.Pillar{
			Stem:   domain.StemAt((domain.YearStemIndex(t.Year())%5)*2 + 2 + int(t.Month()) - 1),
			Branch: domain.BranchAt(int(t.Month()) + 1),
		},
		DayPillar: domain.Pillar{
			Stem:   domain.StemAt(dayStem),
			Branch: domain.BranchAt(dayBranch),
		},
		Lucky:     (dayStem+dayBranch)%3 == 0,
		FetchedAt: time.Now().UnixMilli(),
	}
	day.LunarDate = day.YearPillar.String() + "年" + day.DayPillar.String() + "日"

	if term, ok := solarTerms[[2]int{int(t.Month()), t.Day()}]; ok {
		day.SolarTerm = &term
	}

	// Rotate through the activity pool by day cycle position.
	for i := 0; i < 3; i++ {
		day.Suitable = append(day.Suitable, activities[(days+i*5)%len(activities)])
	}
	for i := 0; i < 2; i++ {
		day.Avoid = append(day.Avoid, activities[(days+8+i*3)%len(activities)])
	}

	return day
}
