package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vzahanych/forecast-gateway/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the configured service version",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.GetConfig()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (engine: %s)\n", cfg.Telemetry.ServiceName, cfg.Version, cfg.Engine.Type)
	},
}
