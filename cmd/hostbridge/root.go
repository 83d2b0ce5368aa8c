package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/hostbridge/internal/config"
	"github.com/aretw0/hostbridge/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hostbridge",
	Short: "hostbridge runs and calls transport-agnostic backend commands",
	Long: `hostbridge exposes a registry of named commands over HTTP (serve) or MCP (mcp),
and invokes them from the command line either remotely or in-process (invoke).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "hostbridge.yaml", "Path to a YAML or JSON config file (optional)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (overrides config)")
}

// setup loads the config and builds the logger shared by every subcommand.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.NewWithFormat(os.Stderr, cfg.Log.Format, level)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
