package repository

import (
	"context"
	"testing"

	"nearby-places/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

type recordingSender struct {
	calls int
}

func (s *recordingSender) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	s.calls++
	return nil
}

func f(v float64) *float64 { return &v }

func TestPosition(t *testing.T) {
	tests := []struct {
		name     string
		rec      models.RawRecord
		lat, lon float64
		ok       bool
	}{
		{name: "node", rec: models.RawRecord{Lat: f(35.1), Lon: f(139.2)}, lat: 35.1, lon: 139.2, ok: true},
		{name: "way center", rec: models.RawRecord{Center: &models.Coordinate{Lat: 1.5, Lon: 2.5}}, lat: 1.5, lon: 2.5, ok: true},
		{name: "direct wins over center", rec: models.RawRecord{Lat: f(3), Lon: f(4), Center: &models.Coordinate{Lat: 1, Lon: 2}}, lat: 3, lon: 4, ok: true},
		{name: "half a position", rec: models.RawRecord{Lat: f(3)}},
		{name: "nothing", rec: models.RawRecord{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, ok := position(tt.rec)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lat, lat)
			assert.Equal(t, tt.lon, lon)
		})
	}
}

func TestUpsertRecords_NothingToWrite(t *testing.T) {
	sender := &recordingSender{}

	n, err := UpsertRecords(context.Background(), sender, []models.RawRecord{
		{Type: "relation", ID: 1, Tags: map[string]any{"name": "Nowhere"}},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, sender.calls)
}
