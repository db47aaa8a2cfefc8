// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pplx CLI: AI-powered web search
// with a durable local query history.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pplx/internal/secrets"
	"github.com/pdiddy/pplx/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the pplx CLI.
var rootCmd = &cobra.Command{
	Use:   "pplx",
	Short: "AI search and research from the command line",
	Long: `pplx sends natural-language queries to the Perplexity search API and
prints the answer with sources and usage statistics. Every exchange is
recorded in a local history: a SQLite row plus a Markdown transcript,
addressable by a short identifier.

Query commands: search, research, academic, ask, code.
History commands: history list, history show, history clear, history export.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pplx.yaml or ~/.config/pplx/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "history data directory (default: ~/.local/share/pplx)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pplx")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pplx"))
		}
	}

	viper.SetEnvPrefix("PPLX")
	viper.AutomaticEnv()

	viper.SetDefault("api.timeout", 2*time.Minute)
	viper.SetDefault("api.max_retries", 3)
	viper.SetDefault("api.user_agent", "pplx/"+version)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// apiConfig assembles the API client settings from config and secrets. The
// key comes from .secrets/perplexity-api-key, the PERPLEXITY_API_KEY
// environment variable, or api.api_key in the config file.
func apiConfig() (types.APIConfig, error) {
	cfg := types.APIConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("api.timeout"),
			UserAgent: viper.GetString("api.user_agent"),
		},
		APIKey:     viper.GetString("api.api_key"),
		MaxRetries: viper.GetInt("api.max_retries"),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = secrets.Resolve(loadedSecrets, secrets.PerplexityAPIKey, "PERPLEXITY_API_KEY")
	}
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("PERPLEXITY_API_KEY not set: get a key from https://www.perplexity.ai/settings/api")
	}
	return cfg, nil
}

// historyConfig resolves the history base directory: --data-dir flag,
// PPLX_DATA_DIR / data_dir config key, then ~/.local/share/pplx.
func historyConfig() (types.HistoryConfig, error) {
	dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("data_dir")
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return types.HistoryConfig{}, fmt.Errorf("resolving home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share", "pplx")
	}
	return types.HistoryConfig{DataDir: dataDir}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
