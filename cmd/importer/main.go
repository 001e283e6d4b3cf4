package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"nearby-places/internal/config"
	"nearby-places/internal/geo"
	"nearby-places/internal/logger"
	"nearby-places/internal/models"
	"nearby-places/internal/overpass"
	"nearby-places/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// overpassExport is the JSON document Overpass returns for [out:json].
type overpassExport struct {
	Elements []models.RawRecord `json:"elements"`
}

func main() {
	file := flag.String("file", "", "Path to an Overpass JSON export to import")
	bbox := flag.String("bbox", "", "south,west,north,east to fetch live from Overpass instead of -file")
	category := flag.String("category", "all", "Filter chip key used with -bbox")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if (*file == "") == (*bbox == "") {
		log.Fatal().Msg("exactly one of --file or --bbox is required")
	}

	ctx := context.Background()

	var records []models.RawRecord
	if *file != "" {
		log.Info().Str("file", *file).Msg("starting import")
		records, err = parseExport(*file)
	} else {
		log.Info().Str("bbox", *bbox).Str("category", *category).Msg("fetching from overpass")
		records, err = fetchLive(ctx, cfg, *bbox, *category)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("cannot read records")
	}
	log.Info().Int("records", len(records)).Msg("parsed records")

	// Connect to DB
	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close(ctx)

	// Ensure table exists
	if _, err := conn.Exec(ctx, repository.Schema); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	written, err := repository.UpsertRecords(ctx, conn, records)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot insert records")
	}

	// Verify data
	if err := verifyImport(ctx, conn, written); err != nil {
		log.Fatal().Err(err).Msg("import verification failed")
	}

	log.Info().Int("written", written).Int("skipped", len(records)-written).Msg("import done")
}

func parseExport(filePath string) ([]models.RawRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var doc overpassExport
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	return doc.Elements, nil
}

func fetchLive(ctx context.Context, cfg config.Config, bbox, categoryKey string) ([]models.RawRecord, error) {
	box, err := geo.ParseBoundingBox(bbox)
	if err != nil {
		return nil, err
	}
	category, err := models.LookupCategory(categoryKey)
	if err != nil {
		return nil, err
	}

	client := overpass.NewClient(overpass.Options{
		URL:          cfg.OverpassURL,
		UserAgent:    cfg.OverpassUserAgent,
		Timeout:      cfg.OverpassTimeout,
		QueryTimeout: cfg.QueryTimeout,
	})
	return client.Fetch(ctx, models.Query{Box: box, Category: category, Limit: cfg.ResultLimit})
}

func verifyImport(ctx context.Context, conn *pgx.Conn, written int) error {
	var count int
	err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM pois").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if count < written {
		return fmt.Errorf("record count mismatch: wrote %d, table has %d", written, count)
	}

	if count == 0 {
		return nil
	}

	// Check a sample geom
	var geom string
	err = conn.QueryRow(ctx, "SELECT ST_AsText(geom) FROM pois LIMIT 1").Scan(&geom)
	if err != nil {
		return fmt.Errorf("failed to check geom: %w", err)
	}

	log.Info().Int("rows", count).Str("sample_geom", geom).Msg("verified import")
	return nil
}
