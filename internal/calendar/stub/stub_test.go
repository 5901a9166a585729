package stub

import (
	"context"
	"errors"
	"testing"

	"ziwei-lab/internal/calendar"
	"ziwei-lab/internal/domain"
)

func TestToLunarMoment_Identity(t *testing.T) {
	s := New()

	m, err := s.ToLunarMoment(context.Background(), "1990-05-15", domain.DateTypeSolar)
	if err != nil {
		t.Fatalf("ToLunarMoment: %v", err)
	}
	if m.Year != 1990 || m.Month != 5 || m.Day != 15 {
		t.Errorf("moment = %+v, want 1990-05-15 passthrough", m)
	}
	if m.Display == "" {
		t.Error("expected non-empty lunar display")
	}
}

func TestToLunarMoment_CannedOverride(t *testing.T) {
	s := New()
	s.Moments["1990-05-15"] = &domain.LunarMoment{Year: 1990, Month: 4, Day: 21, Display: "庚午年四月廿一"}

	m, err := s.ToLunarMoment(context.Background(), "1990-05-15", domain.DateTypeSolar)
	if err != nil {
		t.Fatalf("ToLunarMoment: %v", err)
	}
	if m.Month != 4 || m.Day != 21 {
		t.Errorf("moment = %+v, want canned 4/21", m)
	}
}

func TestToLunarMoment_InvalidDate(t *testing.T) {
	s := New()

	_, err := s.ToLunarMoment(context.Background(), "not-a-date", domain.DateTypeSolar)
	if !errors.Is(err, calendar.ErrInvalidDate) {
		t.Errorf("error = %v, want ErrInvalidDate", err)
	}
}

func TestFourPillars_KnownDates(t *testing.T) {
	s := New()
	ctx := context.Background()

	tests := []struct {
		name       string
		year       int
		month, day int
		hour       int
		wantYear   string
		wantDay    string
	}{
		// 2000-01-01 is a well-known 戊午 day; year pillar ignores the
		// solar-term boundary by stub policy.
		{"epoch reference forward", 2000, 1, 1, 0, "庚辰", "戊午"},
		{"unix epoch day", 1970, 1, 1, 12, "庚戌", "辛巳"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.FourPillars(ctx, &domain.LunarMoment{Year: tt.year, Month: tt.month, Day: tt.day}, tt.hour, 0)
			if err != nil {
				t.Fatalf("FourPillars: %v", err)
			}
			if got := p.Year.String(); got != tt.wantYear {
				t.Errorf("year pillar = %s, want %s", got, tt.wantYear)
			}
			if got := p.Day.String(); got != tt.wantDay {
				t.Errorf("day pillar = %s, want %s", got, tt.wantDay)
			}
		})
	}
}

func TestFourPillars_AlwaysInCycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	for year := 1900; year <= 2100; year += 7 {
		p, err := s.FourPillars(ctx, &domain.LunarMoment{Year: year, Month: year%12 + 1, Day: year%28 + 1}, year%24, 0)
		if err != nil {
			t.Fatalf("FourPillars(%d): %v", year, err)
		}
		for _, pillar := range []domain.Pillar{p.Year, p.Month, p.Day, p.Hour} {
			if !pillar.Stem.Valid() || !pillar.Branch.Valid() {
				t.Errorf("year %d produced out-of-cycle pillar %v", year, pillar)
			}
		}
	}
}

func TestFourPillars_HourBranch(t *testing.T) {
	s := New()
	moment := &domain.LunarMoment{Year: 1990, Month: 5, Day: 15}

	p, err := s.FourPillars(context.Background(), moment, 23, 30)
	if err != nil {
		t.Fatalf("FourPillars: %v", err)
	}
	if p.Hour.Branch != "子" {
		t.Errorf("23:30 hour branch = %s, want 子", p.Hour.Branch)
	}

	p, _ = s.FourPillars(context.Background(), moment, 8, 30)
	if p.Hour.Branch != "辰" {
		t.Errorf("08:30 hour branch = %s, want 辰", p.Hour.Branch)
	}
}
