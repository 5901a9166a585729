package transform

import (
	"testing"

	"ziwei-lab/internal/domain"
)

func TestForStem_TotalOverCycle(t *testing.T) {
	// All 10 stems map to exactly 4 assignments with each role exactly once.
	for _, stem := range domain.Stems {
		got := ForStem(stem)

		if len(got.Transformations) != 4 {
			t.Fatalf("stem %s produced %d transformations, want 4", stem, len(got.Transformations))
		}

		roles := make(map[domain.TransformationType]int)
		for _, st := range got.Transformations {
			roles[st.Type]++
			if st.Star == "" {
				t.Errorf("stem %s has empty star for role %s", stem, st.Type)
			}
		}
		for _, typ := range domain.TransformationTypes {
			if roles[typ] != 1 {
				t.Errorf("stem %s role %s appears %d times, want 1", stem, typ, roles[typ])
			}
		}
	}
}

func TestForStem_CanonicalJia(t *testing.T) {
	got := ForStem("甲")

	want := []domain.StarTransformation{
		{Star: "廉贞", Type: domain.TransformLu},
		{Star: "破军", Type: domain.TransformQuan},
		{Star: "武曲", Type: domain.TransformKe},
		{Star: "太阳", Type: domain.TransformJi},
	}
	for i, w := range want {
		if got.Transformations[i] != w {
			t.Errorf("甲 transformation[%d] = %v, want %v", i, got.Transformations[i], w)
		}
	}
}

func TestForStem_OutOfCycle(t *testing.T) {
	got := ForStem("王")
	if len(got.Transformations) != 0 {
		t.Errorf("out-of-cycle stem produced %d transformations, want 0", len(got.Transformations))
	}
}

func TestResolve_PalaceLocation(t *testing.T) {
	pillars := domain.FourPillars{
		Year: domain.Pillar{Stem: "甲", Branch: "子"},
		Day:  domain.Pillar{Stem: "丙", Branch: "寅"},
	}
	palaces := []domain.Palace{
		{Name: "命宫", Position: 1, Stars: []string{"廉贞", "天同"}},
		{Name: "财帛宫", Position: 5, Stars: []string{"武曲"}},
		{Name: "迁移宫", Position: 7, Stars: []string{"破军"}},
		// 太阳, 天机, 文昌 absent from this chart
	}

	info := Resolve(pillars, palaces)

	// Year stem 甲: 廉贞禄 → 命宫, 破军权 → 迁移宫, 武曲科 → 财帛宫, 太阳忌 unlocated.
	// Day stem 丙: 天同禄 → 命宫, 天机权/文昌科 unlocated, 廉贞忌 → 命宫.
	gotLife := info.Palaces["命宫"]
	if len(gotLife) != 3 {
		t.Fatalf("Palaces[命宫] has %d transformations, want 3: %v", len(gotLife), gotLife)
	}
	// Year-stem contribution precedes day-stem contribution.
	if gotLife[0].Star != "廉贞" || gotLife[0].Type != domain.TransformLu {
		t.Errorf("Palaces[命宫][0] = %v, want 廉贞化禄", gotLife[0])
	}
	if gotLife[1].Star != "天同" || gotLife[1].Type != domain.TransformLu {
		t.Errorf("Palaces[命宫][1] = %v, want 天同化禄", gotLife[1])
	}
	if gotLife[2].Star != "廉贞" || gotLife[2].Type != domain.TransformJi {
		t.Errorf("Palaces[命宫][2] = %v, want 廉贞化忌", gotLife[2])
	}

	if len(info.Palaces["财帛宫"]) != 1 || info.Palaces["财帛宫"][0].Star != "武曲" {
		t.Errorf("Palaces[财帛宫] = %v, want [武曲化科]", info.Palaces["财帛宫"])
	}

	// The stem lists stay complete even when stars are unlocated.
	if len(info.YearStem.Transformations) != 4 || len(info.DayStem.Transformations) != 4 {
		t.Error("per-stem transformation lists must be unconditional")
	}

	// Unlocated stars must not invent palace entries.
	for palace, list := range info.Palaces {
		for _, st := range list {
			if st.Star == "太阳" || st.Star == "天机" || st.Star == "文昌" {
				t.Errorf("absent star %s located in %s", st.Star, palace)
			}
		}
	}
}

func TestResolve_Deterministic(t *testing.T) {
	pillars := domain.FourPillars{
		Year: domain.Pillar{Stem: "庚", Branch: "午"},
		Day:  domain.Pillar{Stem: "庚", Branch: "辰"},
	}
	palaces := []domain.Palace{
		{Name: "命宫", Position: 1, Stars: []string{"太阳", "武曲", "太阴", "天同"}},
	}

	first := Resolve(pillars, palaces)
	second := Resolve(pillars, palaces)

	if len(first.Palaces["命宫"]) != len(second.Palaces["命宫"]) {
		t.Fatal("Resolve is not deterministic")
	}
	for i := range first.Palaces["命宫"] {
		if first.Palaces["命宫"][i] != second.Palaces["命宫"][i] {
			t.Errorf("Resolve order differs at %d", i)
		}
	}
	// Both stems are 庚, so all 8 contributions land in 命宫.
	if len(first.Palaces["命宫"]) != 8 {
		t.Errorf("Palaces[命宫] = %d entries, want 8", len(first.Palaces["命宫"]))
	}
}
