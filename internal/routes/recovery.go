package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rm-hull/ev-stations-api/internal/models"
)

// Recovery turns a panic into the usual JSON error body. The stack trace is
// only logged.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(gin.DefaultErrorWriter, func(c *gin.Context, recovered any) {
		message := "Unknown error"
		switch v := recovered.(type) {
		case error:
			message = v.Error()
		case string:
			message = v
		case nil:
		default:
			message = fmt.Sprint(v)
		}

		log.Error().Str("path", c.Request.URL.Path).Interface("panic", recovered).Msg("recovered from panic")
		c.Header("Cache-Control", NoStore)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.StationsResponse{
			Stations: []models.Station{},
			Error:    &models.ErrorMessage{Message: message},
		})
	})
}
