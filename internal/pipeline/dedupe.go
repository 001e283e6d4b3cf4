package pipeline

import (
	"fmt"
	"strings"

	"nearby-places/internal/models"
)

// IdentityKey rounds the coordinates to 5 decimals (about 1.1m). Strict keys
// also carry the lowercase name so that distinct places sharing a point survive.
func IdentityKey(p models.Place, strict bool) string {
	key := fmt.Sprintf("%.5f|%.5f", p.Latitude, p.Longitude)
	if strict {
		key += "|" + strings.ToLower(p.DisplayName)
	}
	return key
}

// Dedupe drops every place whose identity key was already seen. Order is kept.
func Dedupe(places []models.Place, strict bool) []models.Place {
	seen := make(map[string]struct{}, len(places))
	out := make([]models.Place, 0, len(places))
	for _, p := range places {
		key := IdentityKey(p, strict)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
