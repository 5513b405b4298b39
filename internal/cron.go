package internal

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const CRON_SCHEDULE_CITIES = "5 */1 * * *" // Every hour

// WarmFunc refreshes cached results and reports how many entries succeeded.
type WarmFunc func(ctx context.Context) (int, error)

// StartCron schedules the hourly city cache refresh. Each run is bounded by
// timeout so a stuck upstream cannot pile up overlapping runs.
func StartCron(warm WarmFunc, timeout time.Duration) (*cron.Cron, error) {

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	log.Print("Starting CRON job to refresh city station caches")

	if _, err := c.AddFunc(CRON_SCHEDULE_CITIES, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		numCities, err := warm(ctx)
		if err != nil {
			log.Printf("Error refreshing city caches: %v", err)
		}
		log.Printf("Refreshed %d city caches", numCities)
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
