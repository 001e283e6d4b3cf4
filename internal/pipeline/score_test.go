package pipeline

import (
	"testing"

	"nearby-places/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		attrs    models.Attributes
		expected float64
	}{
		{name: "rating with reviews", attrs: models.Attributes{"rating": "4.5", "review_count": "200"}, expected: 110},
		{name: "rating without reviews", attrs: models.Attributes{"rating": "3"}, expected: 60},
		{name: "odd review count keeps fraction", attrs: models.Attributes{"rating": "4", "review_count": "15"}, expected: 81.5},
		{name: "stars", attrs: models.Attributes{"stars": "5"}, expected: 150},
		{name: "fractional stars truncate", attrs: models.Attributes{"stars": "3.5"}, expected: 90},
		{name: "michelin", attrs: models.Attributes{"michelin": "true"}, expected: 85},
		{name: "gault millau", attrs: models.Attributes{"gault_millau": "yes"}, expected: 85},
		{name: "attraction", attrs: models.Attributes{"tourism": "attraction"}, expected: 80},
		{name: "nothing", attrs: models.Attributes{}, expected: 0},
		{name: "zero rating falls through to stars", attrs: models.Attributes{"rating": "0", "stars": "2"}, expected: 60},
		{name: "rating wins over everything", attrs: models.Attributes{"rating": "1", "stars": "5", "michelin": "yes", "tourism": "attraction"}, expected: 20},
		{name: "stars win over guide", attrs: models.Attributes{"stars": "1", "michelin": "yes"}, expected: 30},
		{name: "unparsable rating", attrs: models.Attributes{"rating": "n/a", "tourism": "museum"}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Score(tt.attrs, DefaultAttractionScore), 1e-9)
		})
	}
}

func TestScore_AttractionConstantIsConfigurable(t *testing.T) {
	assert.Equal(t, 90.0, Score(models.Attributes{"tourism": "attraction"}, 90))
}
