package overpass

import (
	"fmt"
	"strconv"
	"strings"

	"nearby-places/internal/models"
)

// POITags are the keys queried when no category is active.
var POITags = []string{"amenity", "shop", "leisure", "tourism", "sport", "craft", "office", "historic", "attraction"}

const namedSelector = `["name"~"."]`

// QueryOptions controls the Overpass QL header and output statement.
type QueryOptions struct {
	TimeoutSeconds int
	Limit          int
}

// Selector renders the tag filter of a category, e.g. ["tourism"="hotel"].
func Selector(c models.Category) string {
	switch {
	case c.IsAll():
		return ""
	case c.Exact != "":
		return fmt.Sprintf(`[%q=%q]`, c.Tag, c.Exact)
	case c.Pattern != nil:
		return fmt.Sprintf(`[%q~%q]`, c.Tag, c.Pattern.String())
	}
	return fmt.Sprintf(`[%q]`, c.Tag)
}

// BuildQuery renders the Overpass QL for a box and category. Only named
// elements are requested; ways and relations come back with their center.
func BuildQuery(box models.BoundingBox, c models.Category, opts QueryOptions) string {
	b := formatBox(box)
	header := fmt.Sprintf("[out:json][timeout:%d];", opts.TimeoutSeconds)
	footer := fmt.Sprintf("out center %d;", opts.Limit)

	if !c.IsAll() {
		f := Selector(c)
		return fmt.Sprintf("%s\n(node%s%s(%s);\n way%s%s(%s);\n rel%s%s(%s););\n%s",
			header, f, namedSelector, b, f, namedSelector, b, f, namedSelector, b, footer)
	}

	parts := make([]string, 0, len(POITags)*3)
	for _, tag := range POITags {
		for _, kind := range []string{"node", "way", "rel"} {
			parts = append(parts, fmt.Sprintf(`%s[%q]%s(%s);`, kind, tag, namedSelector, b))
		}
	}
	return fmt.Sprintf("%s(%s);%s", header, strings.Join(parts, "\n"), footer)
}

func formatBox(box models.BoundingBox) string {
	vals := []float64{box.South, box.West, box.North, box.East}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(out, ",")
}
