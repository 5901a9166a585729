package domain

// PalaceNames lists the 12 canonical palace names in ring order.
// The palace at ring position p carries PalaceNames[p-1] only by
// convention; the actual name↔position bijection of a chart is fixed
// by the chart-primitive collaborator from the birth moment.
var PalaceNames = []string{
	"命宫", "兄弟宫", "夫妻宫", "子女宫", "财帛宫", "疾厄宫",
	"迁移宫", "交友宫", "官禄宫", "田宅宫", "福德宫", "父母宫",
}

// PalaceCount is the fixed size of the palace ring.
const PalaceCount = 12

// Palace is one raw palace as returned by the chart-primitive service.
type Palace struct {
	Name     string   // one of the 12 canonical names
	Position int      // ring position 1-12, unique within a chart
	Stars    []string // star names in placement order, may be empty
}

// Void reports whether the palace holds no stars.
func (p Palace) Void() bool { return len(p.Stars) == 0 }

// PalaceByName returns the palace with the given name, or nil.
func PalaceByName(palaces []Palace, name string) *Palace {
	for i := range palaces {
		if palaces[i].Name == name {
			return &palaces[i]
		}
	}
	return nil
}

// PalaceAtPosition returns the palace at ring position pos (1-12), or nil.
func PalaceAtPosition(palaces []Palace, pos int) *Palace {
	for i := range palaces {
		if palaces[i].Position == pos {
			return &palaces[i]
		}
	}
	return nil
}
