// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-feed CLI. paper-feed fetches
// recent arXiv papers for the configured research areas, enriches them, and
// writes the JSON files served by the static front end.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-feed/internal/config"
	"github.com/pdiddy/paper-feed/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the paper-feed CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-feed",
	Short: "Fetch, tag, and publish recent arXiv papers",
	Long: `paper-feed searches arXiv for recent papers in the configured research
areas, tags them by topic, extracts keywords, resolves venues, impact
scores and citation counts, and writes JSON files for a static site.

Run "paper-feed fetch" for the daily batch, or "paper-feed classify" to
check how a title and abstract would be tagged under the current config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.LoadEnv(secrets.DefaultEnvFile); err != nil {
			return err
		}
		s, err := secrets.Load(secrets.DefaultDir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", config.DefaultPath, "config file (YAML or JSON)")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	viper.SetEnvPrefix("PAPER_FEED")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
