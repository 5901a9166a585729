package domain

// StarInfo is the per-palace star classification of a chart.
// A palace absent from a map has zero stars of that category.
type StarInfo struct {
	MainStars  map[string][]string // palace name → main stars in placement order
	LuckyStars map[string][]string // palace name → lucky stars
	EvilStars  map[string][]string // palace name → malefic stars
	// KeyStarsLocation maps each key star present in the chart to the
	// palace holding it. Key stars missing from the chart are omitted.
	KeyStarsLocation map[string]string
}
