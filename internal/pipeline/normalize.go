package pipeline

import "nearby-places/internal/models"

// Normalize turns one upstream element into a Place. It reports false for
// records without usable coordinates or a name; 0 counts as missing.
func Normalize(raw models.RawRecord, opts Options) (models.Place, bool) {
	lat, lon, ok := coordinates(raw)
	if !ok {
		return models.Place{}, false
	}

	attrs := models.AttributesFromTags(raw.Tags)
	name := displayName(attrs, opts.BrandFallback)
	if name == "" {
		return models.Place{}, false
	}

	return models.Place{
		Latitude:     lat,
		Longitude:    lon,
		DisplayName:  name,
		Category:     attrs.Kind(),
		Badge:        attrs.Badge(),
		Attributes:   attrs,
		QualityScore: Score(attrs, opts.AttractionScore),
	}, true
}

func coordinates(raw models.RawRecord) (float64, float64, bool) {
	var lat, lon float64
	if raw.Lat != nil {
		lat = *raw.Lat
	} else if raw.Center != nil {
		lat = raw.Center.Lat
	}
	if raw.Lon != nil {
		lon = *raw.Lon
	} else if raw.Center != nil {
		lon = raw.Center.Lon
	}
	return lat, lon, lat != 0 && lon != 0
}

func displayName(attrs models.Attributes, brandFallback bool) string {
	if name := attrs.Name(); name != "" || !brandFallback {
		return name
	}
	if brand := attrs.Brand(); brand != "" {
		return brand
	}
	return attrs.Operator()
}
