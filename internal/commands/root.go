package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallied-dev/tallied/internal/analytics"
	"github.com/tallied-dev/tallied/internal/buildinfo"
	"github.com/tallied-dev/tallied/internal/categorize"
	"github.com/tallied-dev/tallied/internal/config"
	"github.com/tallied-dev/tallied/internal/ledger"
	"github.com/tallied-dev/tallied/internal/logging"
	"github.com/tallied-dev/tallied/internal/recurring"
	"github.com/tallied-dev/tallied/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tallied",
		Short:   "Personal finance import and analytics",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("dir", "C", ".", "project directory (contains tallied.yaml)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newSubscriptionsCommand())
	rootCmd.AddCommand(newExportCommand())

	return rootCmd
}

// app bundles everything a subcommand needs.
type app struct {
	root        string
	cfg         *config.Config
	categorizer *categorize.Categorizer
	service     *ledger.Service
	log         zerolog.Logger
}

// loadApp reads the project config and wires the service graph.
func loadApp(cmd *cobra.Command) (*app, error) {
	dir, _ := cmd.Flags().GetString("dir")
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, "tallied.yaml"))
	if err != nil {
		return nil, fmt.Errorf("loading project config (run 'tallied init'?): %w", err)
	}

	log := logging.New(cfg.Log.Level)

	categorizer := categorize.Default()
	rulesPath := filepath.Join(root, "rules", "categorization-rules.yaml")
	if _, err := os.Stat(rulesPath); err == nil {
		categorizer, err = categorize.LoadRules(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("loading categorization rules: %w", err)
		}
	}

	dataDir := cfg.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(root, dataDir)
	}

	st := store.NewFileStore(dataDir, categorizer, cfg.AmountCeiling())
	cache := analytics.NewCache(cfg.Cache.Capacity)
	detector := recurring.New(recurringConfig(cfg))
	service := ledger.NewService(st, cache, detector, log)

	return &app{
		root:        root,
		cfg:         cfg,
		categorizer: categorizer,
		service:     service,
		log:         log,
	}, nil
}

func recurringConfig(cfg *config.Config) recurring.Config {
	rc := recurring.DefaultConfig()
	if cfg.Recurring.AmountTolerance > 0 {
		rc.AmountTolerance = decimal.NewFromFloat(cfg.Recurring.AmountTolerance)
	}
	if cfg.Recurring.IntervalDays > 0 {
		rc.IntervalDays = cfg.Recurring.IntervalDays
	}
	if cfg.Recurring.IntervalTolerance > 0 {
		rc.IntervalTolerance = cfg.Recurring.IntervalTolerance
	}
	if cfg.Recurring.MinOccurrences > 0 {
		rc.MinOccurrences = cfg.Recurring.MinOccurrences
	}
	return rc
}
