package models

import "errors"

// ErrSourceUnavailable marks a failed upstream query (timeout, rate limit, bad response).
// It is never used for an empty result set.
var ErrSourceUnavailable = errors.New("places source unavailable")

// Coordinate is a bare latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RawRecord is one element of an upstream response, exactly as decoded.
// Lat/Lon are pointers so that an absent field can be told apart from zero.
type RawRecord struct {
	Type   string         `json:"type"`
	ID     int64          `json:"id"`
	Lat    *float64       `json:"lat,omitempty"`
	Lon    *float64       `json:"lon,omitempty"`
	Center *Coordinate    `json:"center,omitempty"`
	Tags   map[string]any `json:"tags,omitempty"`
}

// Place is a normalized point of interest ready to be painted as a marker and a list row.
type Place struct {
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	DisplayName    string     `json:"display_name"`
	Category       string     `json:"category"`
	Badge          string     `json:"badge,omitempty"`
	Attributes     Attributes `json:"attributes"`
	QualityScore   float64    `json:"quality_score"`
	DistanceMeters float64    `json:"distance_meters,omitempty"`
}

// Stats counts what the pipeline dropped and why.
type Stats struct {
	Raw         int `json:"raw"`
	Rejected    int `json:"rejected"`
	OffCategory int `json:"off_category"`
	Duplicates  int `json:"duplicates"`
	Gated       int `json:"gated"`
}

// RenderModel is the ordered result handed to the render layer.
type RenderModel struct {
	Places []Place `json:"places"`
	Stats  Stats   `json:"-"`
}

// Empty reports whether nothing survived the pipeline.
func (m RenderModel) Empty() bool {
	return len(m.Places) == 0
}

// Query scopes one upstream fetch.
type Query struct {
	Box      BoundingBox
	Category Category
	Limit    int
}

// BoundingBox is a south/west/north/east rectangle in degrees.
type BoundingBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Coordinate {
	return Coordinate{Lat: (b.South + b.North) / 2, Lon: (b.West + b.East) / 2}
}
