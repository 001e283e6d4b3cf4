package service

import (
	"context"
	"fmt"
	"strings"

	"nearby-places/internal/geo"
	"nearby-places/internal/logger"
	"nearby-places/internal/models"
	"nearby-places/internal/pipeline"

	"github.com/rs/zerolog"
)

// Source is the upstream that answers one bounding box query with raw records
type Source interface {
	Fetch(ctx context.Context, q models.Query) ([]models.RawRecord, error)
}

// NearbyRequest describes one refresh
type NearbyRequest struct {
	Box      models.BoundingBox
	Category models.Category
	// Origin, when set, is used to annotate distances
	Origin *models.Coordinate
	// Search keeps only places whose name contains it, case-insensitively
	Search string
}

// PlacesService contains the core business logic for nearby place lookups
type PlacesService struct {
	source   Source
	pipeline *pipeline.Pipeline
	limit    int
	log      zerolog.Logger
}

// NewPlacesService creates a new places service
func NewPlacesService(source Source, p *pipeline.Pipeline, limit int) *PlacesService {
	return &PlacesService{
		source:   source,
		pipeline: p,
		limit:    limit,
		log:      logger.Named("places"),
	}
}

// Nearby fetches the box from the source and runs the result pipeline.
// An empty model is a valid answer; source failures come back as errors
// wrapping models.ErrSourceUnavailable.
func (s *PlacesService) Nearby(ctx context.Context, req NearbyRequest) (models.RenderModel, error) {
	if err := geo.Validate(req.Box); err != nil {
		return models.RenderModel{}, fmt.Errorf("service: %w", err)
	}

	raw, err := s.source.Fetch(ctx, models.Query{Box: req.Box, Category: req.Category, Limit: s.limit})
	if err != nil {
		return models.RenderModel{}, fmt.Errorf("service: failed to fetch places: %w", err)
	}

	result := s.pipeline.Run(raw, req.Category)
	result.Places = search(result.Places, req.Search)
	if req.Origin != nil {
		for i := range result.Places {
			p := &result.Places[i]
			p.DistanceMeters = geo.Distance(*req.Origin, models.Coordinate{Lat: p.Latitude, Lon: p.Longitude})
		}
	}

	s.log.Debug().
		Str("category", req.Category.Key).
		Int("raw", result.Stats.Raw).
		Int("rejected", result.Stats.Rejected).
		Int("off_category", result.Stats.OffCategory).
		Int("duplicates", result.Stats.Duplicates).
		Int("gated", result.Stats.Gated).
		Int("places", len(result.Places)).
		Msg("pipeline run")

	return result, nil
}

func search(places []models.Place, q string) []models.Place {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return places
	}
	out := make([]models.Place, 0, len(places))
	for _, p := range places {
		if strings.Contains(strings.ToLower(p.DisplayName), q) {
			out = append(out, p)
		}
	}
	return out
}
