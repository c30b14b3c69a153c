package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"nps-explorer/internal/ingest"
	"nps-explorer/internal/logging"
	"nps-explorer/internal/metrics"
	"nps-explorer/internal/store"
	"nps-explorer/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		parkCodes []string
		report    bool
	)

	cmd := &cobra.Command{
		Use:           "ingest",
		Short:         "Load parks, visitor centers and events from the NPS API",
		Long:          "Fetches the configured parks from the NPS API, replaces the store contents and prints a summary.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

			if len(parkCodes) > 0 {
				cfg.NPS.ParkCodes = parkCodes
			}
			if err := cfg.NPS.Validate(); err != nil {
				logging.Error().Err(err).Msg("Invalid NPS configuration")
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, report)
		},
	}

	cmd.Flags().StringSliceVar(&parkCodes, "parks", nil, "park codes to load (default from NPS_PARK_CODES)")
	cmd.Flags().BoolVar(&report, "report", false, "print the ingestion report as JSON")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, printReport bool) error {
	db, err := store.Open(cfg.Database)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to connect to database")
		return err
	}
	defer db.Close()

	loader := ingest.NewLoader(db, ingest.NewClient(cfg.NPS), cfg.NPS.ParkCodes)
	r, err := loader.Run(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Ingestion failed")
		return err
	}

	if url := cfg.NPS.PushgatewayURL; url != "" {
		if err := metrics.PushIngest(url); err != nil {
			logging.Warn().Err(err).Str("url", url).Msg("Failed to push ingest metrics")
		} else {
			logging.Info().Str("url", url).Msg("Pushed ingest metrics")
		}
	}

	if printReport {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return nil
}
