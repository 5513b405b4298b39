package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Warm resolves every preset city once, reporting any that fail. It exercises
// the same pipeline as the API without starting the server.
func Warm(timeout time.Duration, debug bool) error {

	svc, err := bootstrap(debug)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	numCities, err := svc.warmCities(ctx)
	log.Printf("resolved %d of %d cities", numCities, len(svc.cityList))
	if err != nil {
		return fmt.Errorf("failed to resolve every city: %w", err)
	}

	return nil
}
