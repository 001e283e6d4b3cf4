package service

import (
	"context"
	"testing"

	"nearby-places/internal/models"
	"nearby-places/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSource is a mock implementation of the Source interface
type MockSource struct {
	mock.Mock
}

// Fetch implements Source.
func (m *MockSource) Fetch(ctx context.Context, q models.Query) ([]models.RawRecord, error) {
	args := m.Called(ctx, q)
	records, _ := args.Get(0).([]models.RawRecord)
	return records, args.Error(1)
}

func f(v float64) *float64 { return &v }

var testBox = models.BoundingBox{South: 40.70, West: -74.02, North: 40.72, East: -74.00}

func testRecords() []models.RawRecord {
	return []models.RawRecord{
		{Type: "node", Lat: f(40.7128), Lon: f(-74.006), Tags: map[string]any{"name": "Joe's Pizza", "amenity": "restaurant", "rating": "4.5", "review_count": "200"}},
		{Type: "node", Lat: f(40.7130), Lon: f(-74.007), Tags: map[string]any{"name": "Grand Hotel", "tourism": "hotel", "stars": "4"}},
		{Type: "node", Lat: f(40.7140), Lon: f(-74.008), Tags: map[string]any{"name": "Corner Bench", "amenity": "bench"}},
		{Type: "node", Tags: map[string]any{"name": "No Coordinates"}},
	}
}

func TestPlacesService_Nearby(t *testing.T) {
	gated := pipeline.DefaultOptions()
	gated.Mode = pipeline.ModeGated

	tests := []struct {
		name          string
		opts          pipeline.Options
		search        string
		mockRecords   []models.RawRecord
		mockError     error
		expectedNames []string
		expectError   bool
	}{
		{
			name:          "ranked results",
			opts:          pipeline.DefaultOptions(),
			mockRecords:   testRecords(),
			expectedNames: []string{"Grand Hotel", "Joe's Pizza", "Corner Bench"},
		},
		{
			name:          "gated results",
			opts:          gated,
			mockRecords:   testRecords(),
			expectedNames: []string{"Grand Hotel", "Joe's Pizza"},
		},
		{
			name:          "search by name",
			opts:          pipeline.DefaultOptions(),
			search:        "PIZZA",
			mockRecords:   testRecords(),
			expectedNames: []string{"Joe's Pizza"},
		},
		{
			name:          "empty upstream",
			opts:          pipeline.DefaultOptions(),
			mockRecords:   []models.RawRecord{},
			expectedNames: []string{},
		},
		{
			name:        "source failure",
			opts:        pipeline.DefaultOptions(),
			mockError:   models.ErrSourceUnavailable,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSource := new(MockSource)
			svc := NewPlacesService(mockSource, pipeline.New(tt.opts), 300)
			mockSource.On("Fetch", mock.Anything, models.Query{Box: testBox, Category: models.CategoryAll, Limit: 300}).
				Return(tt.mockRecords, tt.mockError)

			// Execute
			result, err := svc.Nearby(context.Background(), NearbyRequest{Box: testBox, Category: models.CategoryAll, Search: tt.search})

			// Assert
			if tt.expectError {
				assert.ErrorIs(t, err, models.ErrSourceUnavailable)
			} else {
				require.NoError(t, err)
				got := make([]string, 0, len(result.Places))
				for _, p := range result.Places {
					got = append(got, p.DisplayName)
				}
				assert.Equal(t, tt.expectedNames, got)
				assert.Equal(t, len(tt.expectedNames) == 0, result.Empty())
			}

			mockSource.AssertExpectations(t)
		})
	}
}

func TestPlacesService_Nearby_Distance(t *testing.T) {
	mockSource := new(MockSource)
	svc := NewPlacesService(mockSource, pipeline.New(pipeline.DefaultOptions()), 300)
	mockSource.On("Fetch", mock.Anything, mock.Anything).Return(testRecords()[:1], nil)
	origin := models.Coordinate{Lat: 40.7138, Lon: -74.006}

	result, err := svc.Nearby(context.Background(), NearbyRequest{Box: testBox, Category: models.CategoryAll, Origin: &origin})

	require.NoError(t, err)
	require.Len(t, result.Places, 1)
	assert.InDelta(t, 111.2, result.Places[0].DistanceMeters, 0.5)
}

func TestPlacesService_Nearby_InvalidBox(t *testing.T) {
	mockSource := new(MockSource)
	svc := NewPlacesService(mockSource, pipeline.New(pipeline.DefaultOptions()), 300)

	_, err := svc.Nearby(context.Background(), NearbyRequest{Box: models.BoundingBox{South: 1, North: 0, West: 0, East: 1}})

	assert.Error(t, err)
	mockSource.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}
