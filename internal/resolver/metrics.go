package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ev_stations",
		Name:      "resolutions_total",
		Help:      "Station resolutions by the source that served them.",
	}, []string{"source"})

	geocodeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ev_stations",
		Name:      "geocode_total",
		Help:      "Free-text location lookups by outcome.",
	}, []string{"outcome"})

	providerFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ev_stations",
		Name:      "provider_failures_total",
		Help:      "Live provider failures, by whether demo data was substituted or the error surfaced.",
	}, []string{"mode"})
)
