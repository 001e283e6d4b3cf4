package handler

import (
	"context"
	"errors"
	"net/http"

	"nearby-places/internal/geo"
	"nearby-places/internal/models"
	"nearby-places/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Response statuses of GET /places
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
)

// PlacesService interface for dependency injection
type PlacesService interface {
	Nearby(context.Context, service.NearbyRequest) (models.RenderModel, error)
}

// Defaults applies when the request carries no position
type Defaults struct {
	Location     models.Coordinate
	RadiusMeters float64
}

// PlacesHandler handles nearby places requests
type PlacesHandler struct {
	service  PlacesService
	defaults Defaults
}

// PlacesResponse is the body of a successful or empty lookup
type PlacesResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Places  []models.Place `json:"places"`
}

type placesQuery struct {
	Lat      *float64 `form:"lat" binding:"omitempty,latitude"`
	Lon      *float64 `form:"lon" binding:"omitempty,longitude"`
	Radius   float64  `form:"radius" binding:"omitempty,gt=0,lte=10000"`
	BBox     string   `form:"bbox"`
	Category string   `form:"category"`
	Search   string   `form:"q" binding:"max=100"`
}

// NewPlacesHandler creates a new places handler
func NewPlacesHandler(svc PlacesService, defaults Defaults) *PlacesHandler {
	return &PlacesHandler{service: svc, defaults: defaults}
}

// Nearby handles GET /places requests
//
//	@Summary	Ranked points of interest around a position or inside a box
//	@Produce	json
//	@Param		lat			query		number	false	"latitude, requires lon"
//	@Param		lon			query		number	false	"longitude, requires lat"
//	@Param		radius		query		number	false	"radius in meters around lat/lon"
//	@Param		bbox		query		string	false	"south,west,north,east; overrides lat/lon"
//	@Param		category	query		string	false	"filter chip key"
//	@Param		q			query		string	false	"name search"
//	@Success	200			{object}	PlacesResponse
//	@Failure	400			{object}	map[string]string
//	@Failure	502			{object}	map[string]string
//	@Router		/places [get]
func (h *PlacesHandler) Nearby(c *gin.Context) {
	var q placesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	if (q.Lat == nil) != (q.Lon == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameters 'lat' and 'lon' must be given together"})
		return
	}

	category, err := models.LookupCategory(q.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	req := service.NearbyRequest{Category: category, Search: q.Search}
	origin := h.defaults.Location
	if q.Lat != nil {
		origin = models.Coordinate{Lat: *q.Lat, Lon: *q.Lon}
	}

	if q.BBox != "" {
		box, err := geo.ParseBoundingBox(q.BBox)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bounding box"})
			return
		}
		req.Box = box
		if q.Lat == nil {
			origin = box.Center()
		}
	} else {
		radius := q.Radius
		if radius == 0 {
			radius = h.defaults.RadiusMeters
		}
		req.Box = geo.BoxAround(origin, radius)
	}
	req.Origin = &origin

	result, err := h.service.Nearby(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrSourceUnavailable) {
			log.Warn().Err(err).Msg("places source unavailable")
			c.JSON(http.StatusBadGateway, gin.H{"error": service.UnavailableMessage})
			return
		}
		log.Error().Err(err).Msg("places lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if result.Empty() {
		c.JSON(http.StatusOK, PlacesResponse{Status: StatusEmpty, Message: service.EmptyMessage, Places: []models.Place{}})
		return
	}

	c.JSON(http.StatusOK, PlacesResponse{Status: StatusOK, Places: result.Places})
}

// Categories handles GET /categories requests
//
//	@Summary	Filter chips in display order
//	@Produce	json
//	@Success	200	{array}	models.Category
//	@Router		/categories [get]
func Categories(c *gin.Context) {
	c.JSON(http.StatusOK, models.Categories())
}
