package main

import (
	"context"
	"net/http"

	_ "nearby-places/docs"
	"nearby-places/internal/config"
	"nearby-places/internal/handler"
	"nearby-places/internal/logger"
	"nearby-places/internal/models"
	"nearby-places/internal/overpass"
	"nearby-places/internal/pipeline"
	"nearby-places/internal/repository"
	"nearby-places/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title		Nearby Places API
//	@version	1.0
//	@BasePath	/

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger.Init(logger.Options{Level: config.LogLevel, Format: config.LogFormat})

	mode, err := pipeline.ParseMode(config.RankingMode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ranking mode")
	}

	// Upstream source
	var source service.Source
	switch config.Source {
	case "postgis":
		conn, err := pgxpool.New(context.Background(), config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()

		repo := repository.NewRepository(conn)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("cannot prepare schema")
		}
		source = repo
	default:
		source = overpass.NewClient(overpass.Options{
			URL:          config.OverpassURL,
			UserAgent:    config.OverpassUserAgent,
			Timeout:      config.OverpassTimeout,
			QueryTimeout: config.QueryTimeout,
		})
	}

	// Initialize layers
	placesPipeline := pipeline.New(pipeline.Options{
		Mode:             mode,
		QualityThreshold: config.QualityThreshold,
		AttractionScore:  config.AttractionScore,
		StrictIdentity:   config.StrictIdentity,
		BrandFallback:    config.BrandFallback,
	})
	placesService := service.NewPlacesService(source, placesPipeline, config.ResultLimit)

	defaultLocation := models.Coordinate{Lat: config.DefaultLat, Lon: config.DefaultLon}
	placesHandler := handler.NewPlacesHandler(placesService, handler.Defaults{
		Location:     defaultLocation,
		RadiusMeters: config.DefaultRadius,
	})
	sessionHandler := handler.NewSessionHandler(placesService, handler.SessionConfig{
		Defaults: service.SessionDefaults{
			Location:            defaultLocation,
			RadiusMeters:        config.DefaultRadius,
			MoveThresholdMeters: config.MoveThresholdMeters,
		},
		Debounce:       config.DebounceInterval,
		AllowedOrigins: config.Origins(),
	})

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/categories", handler.Categories)
	r.GET("/places", placesHandler.Nearby)
	r.GET("/session", sessionHandler.Session)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Info().
		Str("addr", config.ServerAddress).
		Str("source", config.Source).
		Str("ranking", string(mode)).
		Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
