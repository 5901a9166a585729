package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"ziwei-lab/internal/domain"
)

// ComputeChartID computes a deterministic chart_id using SHA256.
// Formula: SHA256(year|month|day|hour|minute|gender)
// Returns the base58-encoded hash (~44 characters).
func ComputeChartID(birth domain.BirthMoment) string {
	data := fmt.Sprintf("%d|%d|%d|%d|%d|%s",
		birth.Year,
		birth.Month,
		birth.Day,
		birth.Hour,
		birth.Minute,
		string(birth.Gender),
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
