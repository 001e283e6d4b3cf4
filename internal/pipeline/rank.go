package pipeline

import (
	"fmt"
	"slices"

	"nearby-places/internal/models"
)

// Mode selects how Rank treats low-scoring places.
type Mode string

const (
	// ModeUnfiltered sorts everything by score.
	ModeUnfiltered Mode = "unfiltered"
	// ModeGated drops places below the quality threshold before sorting.
	ModeGated Mode = "gated"
)

// ParseMode validates a configured ranking mode. Empty means unfiltered.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeUnfiltered:
		return ModeUnfiltered, nil
	case ModeGated:
		return ModeGated, nil
	}
	return "", fmt.Errorf("pipeline: unknown ranking mode %q", s)
}

// Rank sorts places by descending score. Ties keep their input order.
func Rank(places []models.Place, mode Mode, threshold float64) []models.Place {
	out := make([]models.Place, 0, len(places))
	for _, p := range places {
		if mode == ModeGated && p.QualityScore < threshold {
			continue
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b models.Place) int {
		switch {
		case a.QualityScore > b.QualityScore:
			return -1
		case a.QualityScore < b.QualityScore:
			return 1
		}
		return 0
	})
	return out
}
