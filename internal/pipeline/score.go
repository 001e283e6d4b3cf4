package pipeline

import "nearby-places/internal/models"

// Score constants for the evidence tiers below rating and stars.
const (
	GuideListedScore        = 85
	DefaultAttractionScore  = 80
	DefaultQualityThreshold = 80
)

// Score turns a tag set into a relevance proxy. The first matching rule wins:
// review rating, then star rating, then a guide listing, then the attraction flag.
func Score(attrs models.Attributes, attractionScore float64) float64 {
	if r := attrs.Rating(); r != 0 {
		return r*20 + float64(attrs.ReviewCount())/10
	}
	if s := attrs.Stars(); s != 0 {
		return float64(s) * 30
	}
	if attrs.GuideListed() {
		return GuideListedScore
	}
	if attrs.Tourism() == "attraction" {
		return attractionScore
	}
	return 0
}
