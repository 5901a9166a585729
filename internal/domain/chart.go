package domain

// PalaceDetail is a palace enriched with static presentation metadata.
type PalaceDetail struct {
	Palace
	Direction       string               // compass direction, function of position
	Meaning         string               // life-domain meaning, function of name
	IsVoid          bool                 // no stars assigned
	Transformations []StarTransformation // transformations landing here, if any
}

// ChartResult is the final assembled chart.
// Corresponds to chart_records payload in PostgreSQL.
type ChartResult struct {
	ChartID       string // deterministic hash of the birth facts
	Zodiac        string // Chinese zodiac animal of the birth year
	Constellation string // western constellation of the birth date
	Pillars       FourPillars
	Palaces       []PalaceDetail // all 12, ring order
	Periods       PeriodSet
	Stars         StarInfo
	Transforms    TransformationInfo
	ComputedAt    int64 // computation timestamp, Unix ms
}

// ChartRecord is the persisted form of a computed chart.
// Corresponds to chart_records table in PostgreSQL.
type ChartRecord struct {
	ChartID    string   // PRIMARY KEY, deterministic hash
	BirthDate  string   // date string as submitted
	DateType   DateType // solar | lunar
	Hour       int
	Minute     int
	Gender     Gender
	Zodiac     string
	Payload    []byte // JSON-encoded ChartResult
	ComputedAt int64  // Unix timestamp in milliseconds
	CreatedAt  int64  // record creation timestamp (ms)
}
