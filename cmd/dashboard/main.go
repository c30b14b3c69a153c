package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nps-explorer/internal/dashboard"
	"nps-explorer/internal/logging"
	"nps-explorer/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		apiURL string
		opts   dashboard.Options
		year   int
	)

	cmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Terminal dashboard for the NPS Explorer API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			// the alternate screen owns stdout; keep logs quiet
			logging.Init(logging.Config{Level: "error", Format: "console"})

			if apiURL != "" {
				cfg.Dashboard.APIBaseURL = apiURL
			}
			if cmd.Flags().Changed("year") {
				opts.Year = &year
			}

			client := dashboard.NewAPIClient(cfg.Dashboard)
			return dashboard.Run(client, opts, cfg.Dashboard.Timeout)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL (default from API_BASE_URL)")
	cmd.Flags().StringVar(&opts.StateCode, "state", "", "only show parks in this state")
	cmd.Flags().StringVar(&opts.ParkCode, "park", "", "only show visitor centers and events of this park")
	cmd.Flags().IntVar(&year, "year", 0, "restrict event statistics to this year")
	cmd.Flags().BoolVar(&opts.FreeOnly, "free-only", false, "only list free events")
	cmd.Flags().IntVar(&opts.TopLimit, "top", 5, "number of parks in the free events ranking")
	return cmd
}
