package domain

// Stem is one of the 10 heavenly stems (天干).
type Stem string

// Branch is one of the 12 earthly branches (地支).
type Branch string

// Stems is the heavenly stem cycle in canonical order.
var Stems = []Stem{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

// Branches is the earthly branch cycle in canonical order.
var Branches = []Branch{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

// StemIndex returns the 0-based position of s in the stem cycle, or -1.
func StemIndex(s Stem) int {
	for i, v := range Stems {
		if v == s {
			return i
		}
	}
	return -1
}

// BranchIndex returns the 0-based position of b in the branch cycle, or -1.
func BranchIndex(b Branch) int {
	for i, v := range Branches {
		if v == b {
			return i
		}
	}
	return -1
}

// Valid reports whether the stem is one of the 10 cycle values.
func (s Stem) Valid() bool { return StemIndex(s) >= 0 }

// Valid reports whether the branch is one of the 12 cycle values.
func (b Branch) Valid() bool { return BranchIndex(b) >= 0 }

// StemAt returns the stem at cyclic index i (negative values wrap).
func StemAt(i int) Stem {
	return Stems[((i%10)+10)%10]
}

// BranchAt returns the branch at cyclic index i (negative values wrap).
func BranchAt(i int) Branch {
	return Branches[((i%12)+12)%12]
}

// YearStemIndex returns the stem cycle index for a civil year.
// Year 4 CE is 甲子, the cycle origin.
func YearStemIndex(year int) int {
	return ((year-4)%10 + 10) % 10
}

// YearBranchIndex returns the branch cycle index for a civil year.
func YearBranchIndex(year int) int {
	return ((year-4)%12 + 12) % 12
}

// HourBranchIndex returns the branch cycle index governing an hour of day.
// Each branch covers two hours; 子 spans 23:00-00:59.
func HourBranchIndex(hour int) int {
	return ((hour + 1) / 2) % 12
}
