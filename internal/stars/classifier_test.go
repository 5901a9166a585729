package stars

import (
	"testing"

	"ziwei-lab/internal/domain"
)

func TestClassify_CategoryMembership(t *testing.T) {
	palaces := []domain.Palace{
		{Name: "命宫", Position: 1, Stars: []string{"紫微", "天府", "文昌"}},
		{Name: "兄弟宫", Position: 2, Stars: []string{"擎羊"}},
		{Name: "夫妻宫", Position: 3, Stars: []string{"红鸾"}}, // unclassified auxiliary
		{Name: "子女宫", Position: 4, Stars: nil},
	}

	info := Classify(palaces)

	if got := info.MainStars["命宫"]; len(got) != 2 || got[0] != "紫微" || got[1] != "天府" {
		t.Errorf("MainStars[命宫] = %v, want [紫微 天府]", got)
	}
	if got := info.LuckyStars["命宫"]; len(got) != 1 || got[0] != "文昌" {
		t.Errorf("LuckyStars[命宫] = %v, want [文昌]", got)
	}
	if got := info.EvilStars["兄弟宫"]; len(got) != 1 || got[0] != "擎羊" {
		t.Errorf("EvilStars[兄弟宫] = %v, want [擎羊]", got)
	}

	// Unclassified star appears in no map.
	for _, m := range []map[string][]string{info.MainStars, info.LuckyStars, info.EvilStars} {
		for palace, list := range m {
			for _, s := range list {
				if s == "红鸾" {
					t.Errorf("unclassified star 红鸾 leaked into %s", palace)
				}
			}
		}
	}

	// Palace with no stars of a category is absent, not empty.
	if _, ok := info.MainStars["子女宫"]; ok {
		t.Error("MainStars should not contain an entry for a void palace")
	}
}

func TestClassify_NoDoubleCounting(t *testing.T) {
	palaces := []domain.Palace{
		{Name: "命宫", Position: 1, Stars: []string{"紫微", "天府"}},
		{Name: "财帛宫", Position: 5, Stars: []string{"武曲", "禄存", "陀罗"}},
		{Name: "迁移宫", Position: 7, Stars: []string{"天马", "天喜"}},
	}

	info := Classify(palaces)

	classified := 0
	for _, m := range []map[string][]string{info.MainStars, info.LuckyStars, info.EvilStars} {
		for _, list := range m {
			classified += len(list)
		}
	}

	// Every star belonging to at least one table counted exactly once.
	want := 0
	for _, p := range palaces {
		for _, s := range p.Stars {
			if mainSet[s] || luckySet[s] || evilSet[s] {
				want++
			}
		}
	}
	if classified != want {
		t.Errorf("classified star count = %d, want %d", classified, want)
	}
}

func TestClassify_KeyStarLocation(t *testing.T) {
	palaces := []domain.Palace{
		{Name: "命宫", Position: 1, Stars: []string{"紫微"}},
		{Name: "官禄宫", Position: 9, Stars: []string{"武曲", "天相"}},
	}

	info := Classify(palaces)

	if got := info.KeyStarsLocation["紫微"]; got != "命宫" {
		t.Errorf("KeyStarsLocation[紫微] = %q, want 命宫", got)
	}
	if got := info.KeyStarsLocation["武曲"]; got != "官禄宫" {
		t.Errorf("KeyStarsLocation[武曲] = %q, want 官禄宫", got)
	}

	// Key stars missing from the chart are omitted, not padded.
	if _, ok := info.KeyStarsLocation["破军"]; ok {
		t.Error("KeyStarsLocation should omit key stars absent from the chart")
	}
}

func TestClassify_TableDisjointness(t *testing.T) {
	// The three category tables must not overlap, otherwise a star would
	// be classified twice.
	for _, s := range LuckyStars {
		if mainSet[s] {
			t.Errorf("star %s in both main and lucky tables", s)
		}
	}
	for _, s := range EvilStars {
		if mainSet[s] || luckySet[s] {
			t.Errorf("star %s overlaps another table", s)
		}
	}
	if len(MainStars) != 14 {
		t.Errorf("main star table has %d entries, want 14", len(MainStars))
	}
}
