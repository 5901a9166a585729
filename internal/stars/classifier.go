// Package stars partitions palace star lists into the fixed
// main/lucky/malefic categories and locates the key stars.
package stars

import "ziwei-lab/internal/domain"

// Classify partitions every star of every palace into exactly one of the
// three category maps, preserving palace-appearance order. Stars in no
// table are dropped; that is not an error, many auxiliary stars are
// intentionally unclassified. Key stars absent from the whole chart are
// omitted from the location map.
func Classify(palaces []domain.Palace) domain.StarInfo {
	info := domain.StarInfo{
		MainStars:        make(map[string][]string),
		LuckyStars:       make(map[string][]string),
		EvilStars:        make(map[string][]string),
		KeyStarsLocation: make(map[string]string),
	}

	starPalace := make(map[string]string, 32)

	for _, palace := range palaces {
		for _, star := range palace.Stars {
			switch {
			case mainSet[star]:
				info.MainStars[palace.Name] = append(info.MainStars[palace.Name], star)
			case luckySet[star]:
				info.LuckyStars[palace.Name] = append(info.LuckyStars[palace.Name], star)
			case evilSet[star]:
				info.EvilStars[palace.Name] = append(info.EvilStars[palace.Name], star)
			}
			if _, seen := starPalace[star]; !seen {
				starPalace[star] = palace.Name
			}
		}
	}

	for _, key := range KeyStars {
		if palaceName, ok := starPalace[key]; ok {
			info.KeyStarsLocation[key] = palaceName
		}
	}

	return info
}
