package domain

// LuckPeriod is one span of time governed by a palace.
// Major periods are decade-scale ranges; the other five granularities
// are points in time where StartAge == EndAge.
type LuckPeriod struct {
	StartAge int    // inclusive
	EndAge   int    // exclusive for ranges, == StartAge for markers
	Palace   string // governing palace name
	Label    string // calendar context, e.g. "2026年" or "丑时"
}

// PeriodSet holds all six period granularities for one chart.
type PeriodSet struct {
	Major       []LuckPeriod // full-lifespan decade sequence
	ActiveMajor LuckPeriod   // the major period covering the as-of age
	Minor       LuckPeriod
	Annual      LuckPeriod
	Monthly     LuckPeriod
	Daily       LuckPeriod
	Hourly      LuckPeriod
}
