// Package pipeline turns a raw upstream batch into the ranked place list.
// Everything here is pure: no I/O, no shared state between runs.
package pipeline

import "nearby-places/internal/models"

// Options carries the tunables that differ between deployments.
type Options struct {
	Mode             Mode
	QualityThreshold float64
	AttractionScore  float64
	// StrictIdentity appends the name to the identity key.
	StrictIdentity bool
	// BrandFallback names unnamed chain outlets after their brand or operator.
	BrandFallback bool
}

// DefaultOptions matches the widget's stock behaviour.
func DefaultOptions() Options {
	return Options{
		Mode:             ModeUnfiltered,
		QualityThreshold: DefaultQualityThreshold,
		AttractionScore:  DefaultAttractionScore,
	}
}

// Pipeline runs normalize, category re-filter, dedupe and rank.
type Pipeline struct {
	opts Options
}

// New creates a pipeline with the given options.
func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// Options returns the configured options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Run processes one batch. The upstream category filter is not trusted:
// places that do not satisfy category are dropped here as well.
func (p *Pipeline) Run(raw []models.RawRecord, category models.Category) models.RenderModel {
	stats := models.Stats{Raw: len(raw)}

	places := make([]models.Place, 0, len(raw))
	for _, r := range raw {
		place, ok := Normalize(r, p.opts)
		if !ok {
			stats.Rejected++
			continue
		}
		if !category.Matches(place.Attributes) {
			stats.OffCategory++
			continue
		}
		places = append(places, place)
	}

	unique := Dedupe(places, p.opts.StrictIdentity)
	stats.Duplicates = len(places) - len(unique)

	ranked := Rank(unique, p.opts.Mode, p.opts.QualityThreshold)
	stats.Gated = len(unique) - len(ranked)

	return models.RenderModel{Places: ranked, Stats: stats}
}
