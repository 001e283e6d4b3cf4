// Package geo holds the small amount of spherical math the service needs.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"nearby-places/internal/models"
)

const earthRadiusMeters = 6371000.0

// ErrInvalidBoundingBox is returned for malformed or out of range boxes.
var ErrInvalidBoundingBox = errors.New("invalid bounding box")

// ValidCoordinate reports whether lat/lon are inside the WGS84 range.
func ValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Distance returns the haversine distance in meters.
func Distance(a, b models.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BoxAround builds the box that encloses a circle of radius meters around c.
func BoxAround(c models.Coordinate, radiusMeters float64) models.BoundingBox {
	dLat := radiusMeters / earthRadiusMeters * 180 / math.Pi
	cos := math.Cos(c.Lat * math.Pi / 180)
	dLon := 180.0
	if cos > 1e-9 {
		dLon = math.Min(180, dLat/cos)
	}
	return models.BoundingBox{
		South: math.Max(-90, c.Lat-dLat),
		West:  math.Max(-180, c.Lon-dLon),
		North: math.Min(90, c.Lat+dLat),
		East:  math.Min(180, c.Lon+dLon),
	}
}

// Validate checks ranges and ordering of a box.
func Validate(b models.BoundingBox) error {
	if !ValidCoordinate(b.South, b.West) || !ValidCoordinate(b.North, b.East) {
		return fmt.Errorf("%w: out of range", ErrInvalidBoundingBox)
	}
	if b.South >= b.North || b.West >= b.East {
		return fmt.Errorf("%w: south/west must be below north/east", ErrInvalidBoundingBox)
	}
	return nil
}

// ParseBoundingBox reads "south,west,north,east".
func ParseBoundingBox(s string) (models.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return models.BoundingBox{}, fmt.Errorf("%w: expected 4 comma separated values", ErrInvalidBoundingBox)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return models.BoundingBox{}, fmt.Errorf("%w: %q is not a number", ErrInvalidBoundingBox, p)
		}
		v[i] = f
	}
	box := models.BoundingBox{South: v[0], West: v[1], North: v[2], East: v[3]}
	if err := Validate(box); err != nil {
		return models.BoundingBox{}, err
	}
	return box, nil
}
