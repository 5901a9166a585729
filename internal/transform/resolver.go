// Package transform resolves the stem-driven four transformations (四化)
// and locates the palaces holding the transformed stars.
package transform

import "ziwei-lab/internal/domain"

// ForStem returns the four (star, role) assignments of a stem.
// The stem-to-transformation mapping is total over the 10-stem cycle;
// an out-of-cycle stem yields an empty assignment list.
func ForStem(stem domain.Stem) domain.StemTransformations {
	result := domain.StemTransformations{Stem: stem}
	starsFor, ok := stemTable[stem]
	if !ok {
		return result
	}
	for i, typ := range domain.TransformationTypes {
		result.Transformations = append(result.Transformations, domain.StarTransformation{
			Star: starsFor[i],
			Type: typ,
		})
	}
	return result
}

// Resolve maps the year and day stems to their transformation assignments
// and locates which palace holds each transformed star. The per-stem lists
// are unconditional; the palace map is best-effort — a transformed star
// absent from the chart (e.g. an auxiliary star the primitive chart
// excludes) is simply not located.
func Resolve(pillars domain.FourPillars, palaces []domain.Palace) domain.TransformationInfo {
	info := domain.TransformationInfo{
		YearStem: ForStem(pillars.Year.Stem),
		DayStem:  ForStem(pillars.Day.Stem),
		Palaces:  make(map[string][]domain.StarTransformation),
	}

	starPalace := make(map[string]string, 32)
	for _, palace := range palaces {
		for _, star := range palace.Stars {
			if _, seen := starPalace[star]; !seen {
				starPalace[star] = palace.Name
			}
		}
	}

	for _, stem := range []domain.StemTransformations{info.YearStem, info.DayStem} {
		for _, st := range stem.Transformations {
			palaceName, ok := starPalace[st.Star]
			if !ok {
				continue
			}
			info.Palaces[palaceName] = append(info.Palaces[palaceName], st)
		}
	}

	return info
}
