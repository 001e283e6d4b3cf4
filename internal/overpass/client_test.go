package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nearby-places/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "version": 0.6,
  "elements": [
    {"type": "node", "id": 1, "lat": 40.7128, "lon": -74.006, "tags": {"name": "Joe's Pizza", "amenity": "restaurant", "rating": "4.5"}},
    {"type": "way", "id": 2, "center": {"lat": 40.713, "lon": -74.007}, "tags": {"name": "Grand Hotel", "tourism": "hotel", "stars": 4}},
    {"type": "relation", "id": 3, "tags": {"name": "Somewhere"}}
  ]
}`

func TestClient_Fetch(t *testing.T) {
	var gotQuery, gotUA, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		gotQuery = r.PostForm.Get("data")
		gotUA = r.Header.Get("User-Agent")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := NewClient(Options{URL: srv.URL, UserAgent: "test-agent"})
	food, err := models.LookupCategory("food")
	require.NoError(t, err)

	records, err := client.Fetch(context.Background(), models.Query{Box: testBox, Category: food, Limit: 20})

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Contains(t, gotQuery, `["amenity"~"restaurant|cafe|fast_food|bar|pub"]`)
	assert.Contains(t, gotQuery, "out center 20;")
	assert.Contains(t, gotQuery, "[timeout:25]")

	require.NotNil(t, records[0].Lat)
	assert.Equal(t, 40.7128, *records[0].Lat)
	assert.Nil(t, records[1].Lat)
	require.NotNil(t, records[1].Center)
	assert.Equal(t, 40.713, records[1].Center.Lat)
	assert.Equal(t, float64(4), records[1].Tags["stars"])
	assert.Nil(t, records[2].Center)
}

func TestClient_Fetch_EmptyElements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements": []}`))
	}))
	defer srv.Close()

	records, err := NewClient(Options{URL: srv.URL}).Fetch(context.Background(), models.Query{Box: testBox, Category: models.CategoryAll})

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		rateLimited bool
	}{
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte("rate_limited"))
			},
			rateLimited: true,
		},
		{
			name: "server busy",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusGatewayTimeout)
			},
			rateLimited: true,
		},
		{
			name: "bad request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>not json</html>`))
			},
		},
		{
			name: "query timed out on the server",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"version": 0.6, "elements": [], "remark": "runtime error: Query timed out in \"query\" at line 3 after 25 seconds."}`))
			},
		},
		{
			name: "null body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`null`))
			},
		},
		{
			name: "no elements key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"version": 0.6, "generator": "Overpass API"}`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				_, _ = w.Write([]byte(`{"elements": []}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(Options{URL: srv.URL, Timeout: 50 * time.Millisecond})
			records, err := client.Fetch(context.Background(), models.Query{Box: testBox, Category: models.CategoryAll})

			assert.Nil(t, records)
			assert.ErrorIs(t, err, models.ErrSourceUnavailable)
			assert.Equal(t, tt.rateLimited, IsRateLimited(err))
		})
	}
}

func TestClient_Fetch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements": []}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(Options{URL: srv.URL}).Fetch(ctx, models.Query{Box: testBox, Category: models.CategoryAll})

	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
