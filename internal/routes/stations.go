package routes

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rm-hull/ev-stations-api/internal"
	"github.com/rm-hull/ev-stations-api/internal/models"
	"github.com/rm-hull/ev-stations-api/internal/resolver"
)

const NoStore = "no-store, max-age=0"

type StationResolver interface {
	Resolve(ctx context.Context, req resolver.Request) (*resolver.Result, error)
}

func Stations(res StationResolver) func(c *gin.Context) {
	return func(c *gin.Context) {
		c.Header("Cache-Control", NoStore)

		result, err := res.Resolve(c.Request.Context(), ParseRequest(c))
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, toResponse(result))
	}
}

// ParseRequest reads the station query parameters leniently: anything that
// does not parse is treated as absent.
func ParseRequest(c *gin.Context) resolver.Request {
	lng := c.Query("lng")
	if lng == "" {
		lng = c.Query("lon")
	}

	limit, err := strconv.Atoi(strings.TrimSpace(c.Query("limit")))
	if err != nil {
		limit = 0
	}

	stats, _ := strconv.ParseBool(c.Query("stats"))

	return resolver.Request{
		Lat:      parseFloat(c.Query("lat")),
		Lng:      parseFloat(lng),
		Search:   strings.TrimSpace(c.Query("search")),
		Limit:    limit,
		RadiusKm: parseFloat(c.Query("distanceKm")),
		Stats:    stats,
	}
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func toResponse(result *resolver.Result) models.StationsResponse {
	response := models.StationsResponse{
		Stations:    result.Stations,
		Origin:      result.Origin,
		RadiusKm:    result.RadiusKm,
		Statistics:  result.Statistics,
		Attribution: internal.ATTRIBUTION,
	}
	if response.Stations == nil {
		response.Stations = []models.Station{}
	}
	if result.Source != resolver.SourceNone {
		response.Source = string(result.Source)
	}
	if result.Message != "" {
		response.Error = &models.ErrorMessage{Message: result.Message}
	}
	return response
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, resolver.ErrProviderUnavailable) {
		status = http.StatusBadGateway
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Int("status", status).Msg("failed to resolve stations")
	c.AbortWithStatusJSON(status, models.StationsResponse{
		Stations: []models.Station{},
		Error:    &models.ErrorMessage{Message: err.Error()},
	})
}
