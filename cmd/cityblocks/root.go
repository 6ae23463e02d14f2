package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voidshard/cityblocks"
)

var (
	configPath string // Path to a yaml or toml config file
	seed       int64  // Seed for the city, 0 for time based
	logLevel   string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cityblocks",
	Short: "Procedural city block generator",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the CLI root command
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

// loadConfig reads --config if given, otherwise the defaults, and applies --seed
func loadConfig(cmd *cobra.Command) (*cityblocks.Config, error) {
	cfg := cityblocks.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = cityblocks.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		logrus.Infof("loaded config %s", configPath)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a yaml or toml config file")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed for the city (0 picks one from the time)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
