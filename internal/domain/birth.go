package domain

// Gender of the chart subject. Period direction rules depend on it.
type Gender string

// Gender constants
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// DateType declares which calendar a date string is expressed in.
type DateType string

// Date type constants
const (
	DateTypeSolar DateType = "solar"
	DateTypeLunar DateType = "lunar"
)

// BirthMoment is a birth instant normalized to the lunar calendar.
// Produced by the calendar collaborator; immutable afterwards.
type BirthMoment struct {
	Year   int    // lunar year
	Month  int    // lunar month 1-12 (leap months folded by the calendar service)
	Day    int    // lunar day 1-30
	Hour   int    // 0-23
	Minute int    // 0-59
	Gender Gender // male | female
}

// LunarMoment is the calendar service's conversion result.
type LunarMoment struct {
	Year      int
	Month     int
	Day       int
	LeapMonth bool   // date falls in a leap lunar month
	Display   string // human-readable lunar date, e.g. "庚午年四月廿一"
}

// Pillar is one stem+branch pair of the sexagenary cycle.
type Pillar struct {
	Stem   Stem
	Branch Branch
}

// String renders the pillar as the usual two-character ganzhi form.
func (p Pillar) String() string {
	return string(p.Stem) + string(p.Branch)
}

// Valid reports whether both halves are in-cycle.
func (p Pillar) Valid() bool {
	return p.Stem.Valid() && p.Branch.Valid()
}

// ParsePillar splits the two-character ganzhi form back into a Pillar.
// Returns the zero Pillar when s is not exactly two runes.
func ParsePillar(s string) Pillar {
	runes := []rune(s)
	if len(runes) != 2 {
		return Pillar{}
	}
	return Pillar{Stem: Stem(runes[0]), Branch: Branch(runes[1])}
}

// FourPillars are the year/month/day/hour pillars of a birth moment.
type FourPillars struct {
	Year  Pillar
	Month Pillar
	Day   Pillar
	Hour  Pillar
}
