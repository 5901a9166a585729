package domain

// AlmanacDay is one civil day's almanac record as published by the
// ephemeris provider. Corresponds to almanac_days table in ClickHouse.
type AlmanacDay struct {
	Date        string   // civil date, "2006-01-02"
	LunarDate   string   // human-readable lunar date
	YearPillar  Pillar   // ganzhi of the year
	MonthPillar Pillar   // ganzhi of the month
	DayPillar   Pillar   // ganzhi of the day
	SolarTerm   *string  // solar term starting this day (nullable)
	Lucky       bool     // traditionally auspicious day
	Suitable    []string // activities the day favors (宜)
	Avoid       []string // activities the day disfavors (忌)
	FetchedAt   int64    // when the record was received (ms)
}
