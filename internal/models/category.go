package models

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrUnknownCategory is returned for a category key outside the chip table.
var ErrUnknownCategory = errors.New("unknown category")

// Category is one filter chip. Tag selects the records it covers: when
// Pattern is set the tag value must match it, when Exact is set the value must
// equal it, otherwise the tag only has to be present.
// The zero Tag means "all".
type Category struct {
	Key     string         `json:"key"`
	Label   string         `json:"label"`
	Tag     string         `json:"-"`
	Exact   string         `json:"-"`
	Pattern *regexp.Regexp `json:"-"`
}

// CategoryAll keeps every record.
var CategoryAll = Category{Key: "all", Label: "All"}

var categories = []Category{
	CategoryAll,
	{Key: "food", Label: "Food", Tag: "amenity", Pattern: regexp.MustCompile(`restaurant|cafe|fast_food|bar|pub`)},
	{Key: "shop", Label: "Shops", Tag: "shop"},
	{Key: "lodging", Label: "Hotels", Tag: "tourism", Exact: "hotel"},
	{Key: "leisure", Label: "Leisure", Tag: "leisure"},
	{Key: "culture", Label: "Culture", Tag: "tourism", Pattern: regexp.MustCompile(`museum|gallery|attraction`)},
	{Key: "sport", Label: "Sports", Tag: "sport"},
}

// Categories lists the chips in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// LookupCategory resolves a chip key. The empty key is "all".
func LookupCategory(key string) (Category, error) {
	if key == "" {
		return CategoryAll, nil
	}
	for _, c := range categories {
		if c.Key == key {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
}

// IsAll reports whether the category keeps everything.
func (c Category) IsAll() bool {
	return c.Tag == ""
}

// Matches applies the category predicate to a tag set.
func (c Category) Matches(attrs Attributes) bool {
	if c.IsAll() {
		return true
	}
	v := attrs.Get(c.Tag)
	switch {
	case v == "":
		return false
	case c.Exact != "":
		return v == c.Exact
	case c.Pattern != nil:
		return c.Pattern.MatchString(v)
	}
	return true
}
