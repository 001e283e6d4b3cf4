package service

import (
	"math"
	"sync/atomic"

	"nearby-places/internal/geo"
	"nearby-places/internal/models"
)

// Zoom levels used when a session starts.
const (
	DefaultZoom = 14
	LocatedZoom = 15
)

// SessionDefaults seeds a session before the client reports anything.
type SessionDefaults struct {
	Location            models.Coordinate
	RadiusMeters        float64
	MoveThresholdMeters float64
}

// Session is the per-client view state: active filter, user location,
// current viewport and the last viewport that triggered a fetch.
// It is not safe for concurrent use; Live serializes access.
type Session struct {
	ID       string
	Filter   models.Category
	Location models.Coordinate
	Located  bool
	View     models.BoundingBox
	Zoom     int

	defaults   SessionDefaults
	lastCenter models.Coordinate
	lastZoom   int
	fetched    bool
}

// NewSession starts at the default location with the "all" filter.
func NewSession(id string, d SessionDefaults) *Session {
	return &Session{
		ID:       id,
		Filter:   models.CategoryAll,
		Location: d.Location,
		View:     geo.BoxAround(d.Location, d.RadiusMeters),
		Zoom:     DefaultZoom,
		defaults: d,
	}
}

// Locate records the geolocation outcome. A denial or an unusable position
// keeps the default location.
func (s *Session) Locate(lat, lon float64, denied bool) {
	if denied || !geo.ValidCoordinate(lat, lon) || (lat == 0 && lon == 0) {
		s.Location = s.defaults.Location
		s.Located = false
		s.Zoom = DefaultZoom
	} else {
		s.Location = models.Coordinate{Lat: lat, Lon: lon}
		s.Located = true
		s.Zoom = LocatedZoom
	}
	s.View = geo.BoxAround(s.Location, s.defaults.RadiusMeters)
}

// Move updates the viewport and reports whether it moved far enough from the
// last fetched view to justify a new fetch.
func (s *Session) Move(view models.BoundingBox, zoom int) bool {
	s.View = view
	s.Zoom = zoom
	if !s.fetched {
		return true
	}
	dist := geo.Distance(s.lastCenter, view.Center())
	return dist > s.defaults.MoveThresholdMeters || math.Abs(float64(zoom-s.lastZoom)) >= 1
}

// SetFilter switches the active category.
func (s *Session) SetFilter(key string) error {
	c, err := models.LookupCategory(key)
	if err != nil {
		return err
	}
	s.Filter = c
	return nil
}

// Request snapshots the session into a fetch request and marks the view as fetched.
func (s *Session) Request() NearbyRequest {
	s.lastCenter = s.View.Center()
	s.lastZoom = s.Zoom
	s.fetched = true

	origin := s.Location
	return NearbyRequest{Box: s.View, Category: s.Filter, Origin: &origin}
}

// Sequencer numbers fetches so that only the newest answer is rendered.
type Sequencer struct {
	n atomic.Uint64
}

// Next issues a new sequence number, superseding all earlier ones.
func (q *Sequencer) Next() uint64 {
	return q.n.Add(1)
}

// IsLatest reports whether seq is the most recently issued number.
func (q *Sequencer) IsLatest(seq uint64) bool {
	return q.n.Load() == seq
}
