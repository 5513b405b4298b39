package routes

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rm-hull/ev-stations-api/internal/cities"
	"github.com/rm-hull/ev-stations-api/internal/models"
	"github.com/rm-hull/ev-stations-api/internal/resolver"
)

type CityStationsCache interface {
	Stations(ctx context.Context, city *models.City) (*resolver.Result, error)
}

func Cities(list []*models.City) func(c *gin.Context) {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=3600")
		c.JSON(http.StatusOK, models.CitiesResponse{Cities: list})
	}
}

func CityStations(presets cities.Cities, cache CityStationsCache) func(c *gin.Context) {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		city, ok := presets[slug]
		if !ok {
			c.Header("Cache-Control", NoStore)
			c.AbortWithStatusJSON(http.StatusNotFound, models.StationsResponse{
				Stations: []models.Station{},
				Error:    &models.ErrorMessage{Message: fmt.Sprintf("Unknown city: %s", slug)},
			})
			return
		}

		result, err := cache.Stations(c.Request.Context(), city)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Header("Cache-Control", NoStore)
		c.JSON(http.StatusOK, toResponse(result))
	}
}
