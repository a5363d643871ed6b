package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/playoff-odds/internal/config"
	"github.com/yourusername/playoff-odds/internal/league"
	applogger "github.com/yourusername/playoff-odds/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	logger     *logrus.Logger
	table      *league.Table
)

var rootCmd = &cobra.Command{
	Use:           "playoff-odds",
	Short:         "MLB playoff odds engine",
	Long:          `Simulates the remainder of the MLB season and postseason to estimate playoff, division, wild card and World Series odds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		logger.SetOutput(os.Stderr)

		table, err = league.Default()
		if err != nil {
			logger.WithError(err).Fatal("League reference table is invalid")
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("playoff-odds %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "Path to configuration file")
	rootCmd.AddCommand(simulateCmd, calibrateCmd, serveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
