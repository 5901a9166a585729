package domain

// TransformationType is one of the four transformation roles a stem
// assigns to stars (四化).
type TransformationType string

// Transformation type constants
const (
	TransformLu   TransformationType = "化禄" // wealth and fame
	TransformQuan TransformationType = "化权" // power
	TransformKe   TransformationType = "化科" // glory and merit
	TransformJi   TransformationType = "化忌" // adversity
)

// TransformationTypes lists the four roles in canonical order.
var TransformationTypes = []TransformationType{
	TransformLu, TransformQuan, TransformKe, TransformJi,
}

// StarTransformation is one (star, role) assignment.
type StarTransformation struct {
	Star string
	Type TransformationType
}

// StemTransformations are the four assignments produced by one stem.
type StemTransformations struct {
	Stem            Stem
	Transformations []StarTransformation // exactly 4, one per role
}

// TransformationInfo is the resolved four-transformation view of a chart.
type TransformationInfo struct {
	YearStem StemTransformations
	DayStem  StemTransformations
	// Palaces maps a palace name to the transformations whose star it
	// holds, year-stem contributions before day-stem. Transformations
	// whose star is absent from the chart do not appear here.
	Palaces map[string][]StarTransformation
}
