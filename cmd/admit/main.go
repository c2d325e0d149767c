package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"admitcast/internal/chat"
	"admitcast/internal/college"
	"admitcast/internal/config"
	"admitcast/internal/enrich"
	"admitcast/internal/logging"
	"admitcast/internal/predict"
	"admitcast/internal/wizard"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	apiKey  string
	seed    int64
	timeout time.Duration

	// Resolved at startup
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "admit",
	Short: "AdmitCast - college admission odds estimator",
	Long: `AdmitCast walks you through a short profile (academics, test scores,
activities, background), then estimates your odds at a college.

Estimates come from a simple heuristic with random variation; they are
illustrative only. With GEMINI_API_KEY set, college statistics are refreshed
from Gemini at startup and fall back to built-in figures on any failure.

Run without arguments to start the interactive wizard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = resolveConfig(cmd)
		if err != nil {
			return err
		}

		// The interactive wizard owns the terminal, so it logs to a file.
		if _, err := logging.Initialize(cfg.Logging, logging.Options{
			Verbose: verbose,
			ToFile:  cmd == cmd.Root(),
		}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Get(logging.CategoryBoot).Debugw("config resolved",
			"path", cfgFile, "enrichment", cfg.EnrichmentEnabled(), "cache", cfg.Cache.Backend)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive wizard
		return runInteractive(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides config and GEMINI_API_KEY)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed the predictor for reproducible estimates (0 = random)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-college Gemini lookup timeout (0 = config value)")

	predictCmd.Flags().StringVar(&predictCollege, "college", "", "College id (UCB, UCLA, USC)")
	predictCmd.Flags().StringVar(&predictGPA, "gpa", "", "Unweighted GPA")
	predictCmd.Flags().StringVar(&predictWeighted, "weighted-gpa", "", "Weighted GPA")
	predictCmd.Flags().StringVar(&predictSAT, "sat", "", "SAT score")
	predictCmd.Flags().StringVar(&predictACT, "act", "", "ACT score")
	predictCmd.Flags().StringVar(&predictAP, "ap", "", "AP courses taken")
	predictCmd.Flags().StringVar(&predictActivities, "activities", "", "Comma separated activities")
	predictCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
	_ = predictCmd.MarkFlagRequired("college")

	collegesCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")

	rootCmd.AddCommand(predictCmd, collegesCmd, serveCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig loads the config file and applies command line overrides.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if apiKey != "" {
		c.Gemini.APIKey = apiKey
	}
	if flags.Changed("seed") {
		c.Predictor.Seed = seed
	}
	if flags.Changed("timeout") {
		c.Gemini.Timeout = timeout.String()
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return c, nil
}

// buildDeps loads the catalog (enriching it when configured) and assembles
// the collaborators every session shares. The returned func releases the
// enrichment cache.
func buildDeps(ctx context.Context) (wizard.Deps, func() error) {
	if ctx == nil {
		ctx = context.Background()
	}
	lookup, closeCache, err := enrich.FromConfig(ctx, cfg, logging.Get(logging.CategoryEnrich))
	if err != nil {
		logging.Get(logging.CategoryEnrich).Warnw("enrichment unavailable, using static catalog", "error", err)
		lookup = nil
	}

	timer := logging.StartTimer(logging.CategoryCatalog, "catalog load")
	catalog := college.Load(ctx, lookup, logging.Get(logging.CategoryCatalog))
	timer.StopWithThreshold(5 * time.Second)

	var src predict.Source
	if cfg.Predictor.Seed != 0 {
		src = predict.NewSeeded(cfg.Predictor.Seed)
	}

	return wizard.Deps{
		Catalog:   catalog,
		Predictor: predict.New(src),
		Chat:      chat.NewStub(cfg.GetChatDelay()),
		Logger:    logging.Get(logging.CategoryWizard),
	}, closeCache
}
