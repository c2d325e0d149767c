package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// statusCmd shows the resolved configuration
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and enrichment status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fileState := "found"
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			fileState = "not found, using defaults"
		}
		credential := "absent (static catalog)"
		if cfg.EnrichmentEnabled() {
			credential = "present"
		}
		seedText := "random"
		if cfg.Predictor.Seed != 0 {
			seedText = fmt.Sprintf("%d", cfg.Predictor.Seed)
		}

		fmt.Fprintf(out, "Config:        %s (%s)\n", cfgFile, fileState)
		fmt.Fprintf(out, "Gemini key:    %s\n", credential)
		fmt.Fprintf(out, "Gemini model:  %s (timeout %s)\n", cfg.Gemini.Model, cfg.GetGeminiTimeout())
		fmt.Fprintf(out, "Cache:         %s\n", cfg.Cache.Backend)
		fmt.Fprintf(out, "Server addr:   %s\n", cfg.Server.Addr)
		fmt.Fprintf(out, "Predictor:     seed %s\n", seedText)
		fmt.Fprintf(out, "Chat delay:    %s\n", cfg.GetChatDelay())
		return nil
	},
}
