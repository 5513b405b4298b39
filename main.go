package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rm-hull/ev-stations-api/cmd"
)

func main() {
	var port int
	var debug bool
	var warmCities bool
	var timeout time.Duration

	rootCmd := &cobra.Command{
		Use:   "ev-stations",
		Short: "EV charging station finder API",
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging (and pprof endpoints for the API server)")

	apiServerCmd := &cobra.Command{
		Use:   "api-server",
		Short: "Start HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(port, debug, warmCities)
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&warmCities, "warm-cities", false, "Pre-load and hourly refresh the city station caches")

	warmCmd := &cobra.Command{
		Use:   "warm",
		Short: "Resolve stations for every preset city once",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Warm(timeout, debug)
		},
	}
	warmCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Overall time limit")

	rootCmd.AddCommand(apiServerCmd, warmCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
