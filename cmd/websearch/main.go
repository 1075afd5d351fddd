// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the websearch CLI and HTTP service.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/websearch/internal/config"
	"github.com/pdiddy/websearch/internal/logging"
	"github.com/pdiddy/websearch/internal/metrics"
	"github.com/pdiddy/websearch/internal/secrets"
	"github.com/pdiddy/websearch/internal/service"
	"github.com/pdiddy/websearch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg and log are populated before any subcommand runs.
var (
	cfg types.ServiceConfig
	log logging.Logger
)

// rootCmd is the base command for the websearch CLI.
var rootCmd = &cobra.Command{
	Use:   "websearch",
	Short: "Multi-provider web search with fallback and caching",
	Long: `websearch aggregates DuckDuckGo, SearXNG, Brave and NewsAPI behind one
search operation. Queries are routed by intent, fall back across providers
and are cached in a local SQLite database.

Use serve to run the HTTP service, or search, news and classify to work
from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		bootstrap := logging.New(level, os.Stderr)
		config.LoadEnv(bootstrap)

		secretsDir, _ := cmd.Flags().GetString("secrets")
		loaded, err := config.Load(viper.GetViper(), secretsDir)
		if err != nil {
			return err
		}
		cfg = loaded
		if level == "" {
			level = cfg.LogLevel
		}
		log = logging.New(level, os.Stderr)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./websearch.yaml or ~/.config/websearch/config.yaml)")
	rootCmd.PersistentFlags().String("secrets", secrets.DefaultDir, "directory of API key files")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default from LOG_LEVEL)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("websearch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "websearch"))
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openRuntime wires the service from cfg. Callers close it.
func openRuntime() (*service.Runtime, error) {
	return service.Open(cfg, log, metrics.New())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
