// Package geometry provides the fixed cyclic relations between the 12
// palace ring positions: triplicate (三方) and square (四正) neighbors.
package geometry

import (
	"errors"
	"fmt"

	"ziwei-lab/internal/domain"
)

// ErrUnknownPalace is returned for a name outside the 12 canonical palaces.
var ErrUnknownPalace = errors.New("unknown palace")

// Relations are the fixed geometric neighbors of one palace.
type Relations struct {
	TriplePalaces     [2]string // cyclic offsets +4 and -4
	SquarePalace      string    // cyclic offset +6, directly opposite
	AllRelatedPalaces []string  // palace itself + triple + square, deduplicated
}

// Ring geometry offsets.
const (
	tripleOffset = 4
	squareOffset = 6
)

// relationTable is precomputed once at init; the name↔position bijection
// used here is the canonical convention, not a per-chart fact.
var relationTable = buildRelationTable()

func buildRelationTable() map[string]Relations {
	table := make(map[string]Relations, domain.PalaceCount)
	for i, name := range domain.PalaceNames {
		ahead := domain.PalaceNames[(i+tripleOffset)%domain.PalaceCount]
		behind := domain.PalaceNames[(i-tripleOffset+domain.PalaceCount)%domain.PalaceCount]
		opposite := domain.PalaceNames[(i+squareOffset)%domain.PalaceCount]

		all := []string{name, ahead, behind}
		if opposite != name && opposite != ahead && opposite != behind {
			all = append(all, opposite)
		}

		table[name] = Relations{
			TriplePalaces:     [2]string{ahead, behind},
			SquarePalace:      opposite,
			AllRelatedPalaces: all,
		}
	}
	return table
}

// RelatedPalaces returns the triplicate and square neighbors of a palace.
// Returns ErrUnknownPalace for a name outside the canonical 12.
func RelatedPalaces(name string) (Relations, error) {
	rel, ok := relationTable[name]
	if !ok {
		return Relations{}, fmt.Errorf("%w: %q", ErrUnknownPalace, name)
	}
	return rel, nil
}
