package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Depado/ginprom"
	"github.com/aurowora/compress"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rm-hull/ev-stations-api/internal"
	"github.com/rm-hull/ev-stations-api/internal/routes"
	healthcheck "github.com/tavsec/gin-healthcheck"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

func ApiServer(port int, debug bool, warmCities bool) error {

	svc, err := bootstrap(debug)
	if err != nil {
		return err
	}
	defer svc.Close()

	if warmCities {
		warmTimeout := svc.config.UpstreamTimeout * 100
		c, err := internal.StartCron(svc.warmCities, warmTimeout)
		if err != nil {
			return fmt.Errorf("failed to start CRON jobs: %w", err)
		}
		defer c.Stop()

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
			defer cancel()
			numCities, err := svc.warmCities(ctx)
			if err != nil {
				log.Printf("Error warming city caches: %v", err)
			}
			log.Printf("Warmed %d city caches", numCities)
		}()
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		routes.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
		compress.Compress(),
		cors.Default(),
	)

	if debug {
		log.Warn().Msg("pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), svc.checks)
	if err != nil {
		return fmt.Errorf("failed to initialize healthcheck: %v", err)
	}

	v1 := r.Group("/v1")
	v1.GET("/stations", routes.Stations(svc.resolver))
	v1.GET("/cities", routes.Cities(svc.cityList))
	v1.GET("/cities/:slug/stations", routes.CityStations(svc.cities, svc.cityCache))

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting HTTP API Server on port %d...", port)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP API Server failed to start on port %d: %v", port, err)
	}

	return nil
}
