package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridlabs-ec/gridplan/internal/config"
	"github.com/gridlabs-ec/gridplan/internal/cost"
)

var (
	logLevel string
	cfgFile  string
	cfg      *config.Config
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gridplan",
	Short: "Dynamic programming toolkit for power grid planning",
	Long: `GridPlan computes optimal capacity expansion schedules, investment
portfolios and maintenance plans for electric utilities, with greedy
baselines for comparison and an HTTP job server for remote solves.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logger
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: level}
		handler := slog.NewJSONHandler(os.Stdout, opts)
		logger = slog.New(handler)
		slog.SetDefault(logger)

		var err error
		cfg, err = config.Load(cfgFile)
		return err
	},
}

// costModel builds the cost model from the resolved configuration.
func costModel() *cost.Model {
	if cfg == nil {
		return cost.NewModel(cost.DefaultRates())
	}
	return cost.NewModel(cfg.Rates)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (YAML)")
}
