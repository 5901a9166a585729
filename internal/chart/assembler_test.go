package chart

import (
	"testing"
	"time"

	"ziwei-lab/internal/domain"
)

func TestDirection_PeriodEight(t *testing.T) {
	// direction(p) == direction(p+8) wherever both are valid positions.
	for p := 1; p+8 <= 12; p++ {
		if Direction(p) != Direction(p+8) {
			t.Errorf("Direction(%d) = %q != Direction(%d) = %q", p, Direction(p), p+8, Direction(p+8))
		}
	}
	if Direction(1) != "北" || Direction(9) != "北" {
		t.Errorf("positions 1 and 9 should both face 北, got %q and %q", Direction(1), Direction(9))
	}
	if Direction(2) == Direction(3) {
		t.Error("adjacent positions within one cycle must differ")
	}
}

func TestMeaning_SentinelForUnknown(t *testing.T) {
	for _, name := range domain.PalaceNames {
		if got := Meaning(name); got == UnknownMeaning || got == "" {
			t.Errorf("Meaning(%q) = %q, want a real entry", name, got)
		}
	}
	if got := Meaning("无名宫"); got != UnknownMeaning {
		t.Errorf("Meaning(unknown) = %q, want sentinel", got)
	}
}

func TestAssemble_VoidFlagAndMetadata(t *testing.T) {
	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	assembler := NewAssembler().WithClock(func() time.Time { return fixed })

	in := AssembleInput{
		Birth: domain.BirthMoment{Year: 1990, Month: 4, Day: 21, Hour: 8, Minute: 30, Gender: domain.GenderMale},
		Palaces: []domain.Palace{
			{Name: "命宫", Position: 1, Stars: []string{"紫微", "天府"}},
			{Name: "兄弟宫", Position: 2, Stars: nil},
			{Name: "外来宫", Position: 9, Stars: []string{"天机"}},
		},
		Transforms: domain.TransformationInfo{
			Palaces: map[string][]domain.StarTransformation{
				"命宫": {{Star: "紫微", Type: domain.TransformKe}},
			},
		},
	}

	result := assembler.Assemble(in)

	if result.Palaces[0].IsVoid {
		t.Error("palace with stars flagged void")
	}
	if !result.Palaces[1].IsVoid {
		t.Error("empty palace not flagged void")
	}
	if result.Palaces[0].Direction != "北" {
		t.Errorf("position 1 direction = %q, want 北", result.Palaces[0].Direction)
	}
	if result.Palaces[2].Direction != "北" {
		t.Errorf("position 9 direction = %q, want 北 (period 8)", result.Palaces[2].Direction)
	}
	if result.Palaces[2].Meaning != UnknownMeaning {
		t.Errorf("unknown palace meaning = %q, want sentinel", result.Palaces[2].Meaning)
	}
	if len(result.Palaces[0].Transformations) != 1 {
		t.Errorf("命宫 transformations = %v, want the 化科 entry", result.Palaces[0].Transformations)
	}
	if result.ComputedAt != fixed.UnixMilli() {
		t.Errorf("ComputedAt = %d, want %d", result.ComputedAt, fixed.UnixMilli())
	}
	if result.ChartID == "" {
		t.Error("expected non-empty chart id")
	}
}

func TestAssemble_DeterministicChartID(t *testing.T) {
	assembler := NewAssembler()
	in := AssembleInput{
		Birth: domain.BirthMoment{Year: 1990, Month: 4, Day: 21, Hour: 8, Minute: 30, Gender: domain.GenderMale},
	}

	first := assembler.Assemble(in)
	second := assembler.Assemble(in)
	if first.ChartID != second.ChartID {
		t.Errorf("chart id changed between runs: %s != %s", first.ChartID, second.ChartID)
	}
}
