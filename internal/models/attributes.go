package models

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultKind is shown when a place carries none of the category tags.
const DefaultKind = "POI"

// kindTags are checked in order to label a place.
var kindTags = []string{"amenity", "shop", "leisure", "tourism"}

var (
	leadingFloat = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[-+]?\d+`)
)

// Attributes is the tag mapping of a place with typed accessors.
// Every accessor is total: a missing or unparsable tag yields the zero value.
type Attributes map[string]string

// AttributesFromTags stringifies a raw tag map. Numbers use their shortest decimal form.
func AttributesFromTags(tags map[string]any) Attributes {
	attrs := make(Attributes, len(tags))
	for k, v := range tags {
		switch val := v.(type) {
		case string:
			attrs[k] = val
		case float64:
			attrs[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case int:
			attrs[k] = strconv.Itoa(val)
		case int64:
			attrs[k] = strconv.FormatInt(val, 10)
		case bool:
			attrs[k] = strconv.FormatBool(val)
		case nil:
		default:
			// nested objects and arrays are not tag values
		}
	}
	return attrs
}

// Get returns the trimmed value of key.
func (a Attributes) Get(key string) string {
	return strings.TrimSpace(a[key])
}

// Has reports whether key is set to a non-blank value.
func (a Attributes) Has(key string) bool {
	return a.Get(key) != ""
}

func (a Attributes) Name() string     { return a.Get("name") }
func (a Attributes) Brand() string    { return a.Get("brand") }
func (a Attributes) Operator() string { return a.Get("operator") }
func (a Attributes) Tourism() string  { return a.Get("tourism") }

// Rating parses the leading number of the rating tag, so "4.5 stars" is 4.5.
func (a Attributes) Rating() float64 {
	return parseLeadingFloat(a.Get("rating"))
}

// ReviewCount parses the leading integer of review_count.
func (a Attributes) ReviewCount() int {
	return parseLeadingInt(a.Get("review_count"))
}

// Stars parses the leading integer of stars, so "4S" is 4.
func (a Attributes) Stars() int {
	return parseLeadingInt(a.Get("stars"))
}

// GuideListed reports a truthy michelin or gault_millau tag.
func (a Attributes) GuideListed() bool {
	return truthy(a.Get("michelin")) || truthy(a.Get("gault_millau"))
}

// Kind is the first non-empty of amenity, shop, leisure and tourism.
func (a Attributes) Kind() string {
	for _, tag := range kindTags {
		if v := a.Get(tag); v != "" {
			return v
		}
	}
	return DefaultKind
}

// Badge is the short evidence label shown next to a list row.
func (a Attributes) Badge() string {
	switch {
	case a.Has("rating"):
		return "⭐ " + a.Get("rating")
	case a.Has("stars"):
		return "★ " + a.Get("stars")
	case truthy(a.Get("michelin")):
		return "Michelin-listed"
	case a.Tourism() == "attraction":
		return "Attraction"
	}
	return ""
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "", "no", "false", "0":
		return false
	}
	return true
}

func parseLeadingFloat(s string) float64 {
	m := leadingFloat.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseLeadingInt(s string) int {
	m := leadingInt.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
