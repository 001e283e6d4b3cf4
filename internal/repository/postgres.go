package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"nearby-places/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the OSM point of interest mirror. Ways and relations are
// stored at their center, the same shape Overpass returns with "out center".
const Schema = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS pois (
		osm_type TEXT NOT NULL,
		osm_id BIGINT NOT NULL,
		tags JSONB NOT NULL DEFAULT '{}'::jsonb,
		geom GEOGRAPHY(POINT, 4326) NOT NULL,
		PRIMARY KEY (osm_type, osm_id)
	);
	CREATE INDEX IF NOT EXISTS pois_geom_idx ON pois USING GIST (geom);
	CREATE INDEX IF NOT EXISTS pois_tags_idx ON pois USING GIN (tags);
`

const defaultLimit = 300

// Repository implements the places Source on a PostGIS mirror
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the pois table and indexes if they do not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w: %w", models.ErrSourceUnavailable, err)
	}
	return nil
}

// Fetch returns named POIs inside the bounding box. The category narrows
// the result to records carrying its tag; the value predicate is left to
// the pipeline, the same as for Overpass answers.
func (r *Repository) Fetch(ctx context.Context, q models.Query) ([]models.RawRecord, error) {
	sql := `
		SELECT
			osm_type,
			osm_id,
			ST_Y(geom::geometry) as latitude,
			ST_X(geom::geometry) as longitude,
			tags
		FROM pois
		WHERE geom && ST_MakeEnvelope($1, $2, $3, $4, 4326)::geography
		  AND tags ? 'name'
		  AND ($5 = '' OR tags ? $5)
		LIMIT $6
	`

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := r.db.Query(ctx, sql, q.Box.West, q.Box.South, q.Box.East, q.Box.North, q.Category.Tag, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute bbox query: %w: %w", models.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var records []models.RawRecord
	for rows.Next() {
		var (
			rec      models.RawRecord
			lat, lon float64
			tags     []byte
		)
		if err := rows.Scan(&rec.Type, &rec.ID, &lat, &lon, &tags); err != nil {
			return nil, fmt.Errorf("repository: failed to scan poi: %w: %w", models.ErrSourceUnavailable, err)
		}
		if err := json.Unmarshal(tags, &rec.Tags); err != nil {
			return nil, fmt.Errorf("repository: failed to decode tags of %s/%d: %w: %w", rec.Type, rec.ID, models.ErrSourceUnavailable, err)
		}
		rec.Lat, rec.Lon = &lat, &lon
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w: %w", models.ErrSourceUnavailable, err)
	}

	return records, nil
}

// BatchSender is satisfied by *pgx.Conn, pgx.Tx and *pgxpool.Pool
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// UpsertRecords loads records into pois in one batch, replacing the tags and
// position of elements already present. Records without coordinates are
// skipped; the number written is returned.
func UpsertRecords(ctx context.Context, db BatchSender, records []models.RawRecord) (int, error) {
	sql := `
		INSERT INTO pois (osm_type, osm_id, tags, geom)
		VALUES ($1, $2, $3::jsonb, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography)
		ON CONFLICT (osm_type, osm_id) DO UPDATE SET tags = EXCLUDED.tags, geom = EXCLUDED.geom
	`

	batch := &pgx.Batch{}
	for _, rec := range records {
		lat, lon, ok := position(rec)
		if !ok {
			continue
		}
		tags := rec.Tags
		if tags == nil {
			tags = map[string]any{}
		}
		encoded, err := json.Marshal(tags)
		if err != nil {
			return 0, fmt.Errorf("repository: failed to encode tags of %s/%d: %w", rec.Type, rec.ID, err)
		}
		batch.Queue(sql, rec.Type, rec.ID, string(encoded), lon, lat) // PostGIS order: lon lat
	}
	if batch.Len() == 0 {
		return 0, nil
	}

	results := db.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return i, fmt.Errorf("repository: failed to upsert poi %d: %w", i, err)
		}
	}
	return batch.Len(), nil
}

func position(rec models.RawRecord) (float64, float64, bool) {
	switch {
	case rec.Lat != nil && rec.Lon != nil:
		return *rec.Lat, *rec.Lon, true
	case rec.Center != nil:
		return rec.Center.Lat, rec.Center.Lon, true
	}
	return 0, 0, false
}
