// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-feed/internal/catalog"
	"github.com/pdiddy/paper-feed/internal/citation"
	"github.com/pdiddy/paper-feed/internal/classify"
	"github.com/pdiddy/paper-feed/internal/config"
	"github.com/pdiddy/paper-feed/internal/corpus"
	"github.com/pdiddy/paper-feed/internal/httputil"
	"github.com/pdiddy/paper-feed/internal/persist"
	"github.com/pdiddy/paper-feed/internal/search"
	"github.com/pdiddy/paper-feed/internal/secrets"
	"github.com/pdiddy/paper-feed/pkg/types"
)

// cslFile is the CSL-YAML bibliography written next to the docs mirror.
const cslFile = "papers.csl.yaml"

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch recent papers and write the output files",
	Long: `Fetch searches arXiv for papers submitted within the configured window,
tags them against the configured categories, enriches them with keywords,
venue, impact score and citation count, selects the output set, and writes
the data and docs JSON files.

A search failure aborts the run without writing output. Citation lookups
that fail leave the count unknown.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Int("days-back", 0, "override sources.arxiv.days_back")
	fetchCmd.Flags().Int("max-results", 0, "override sources.arxiv.max_results")
	fetchCmd.Flags().String("data-dir", "", "override output.data_dir")
	fetchCmd.Flags().String("docs-dir", "", "override output.docs_dir")
	fetchCmd.Flags().String("selection", "", "override sources.arxiv.selection (ranked or as_found)")

	for _, name := range overrideKeys {
		viper.BindPFlag(name, fetchCmd.Flags().Lookup(name))
	}

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), os.Stderr)
	if err != nil {
		return err
	}
	secrets.ApplyCitations(&cfg.Citations, loadedSecrets)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	started := time.Now()
	retry := httputil.RetryPolicy{MaxRetries: cfg.HTTP.MaxRetries, Log: os.Stderr}
	searcher := &search.ArxivBackend{
		Client:    &http.Client{Timeout: cfg.HTTP.Timeout},
		UserAgent: cfg.HTTP.UserAgent,
		Retry:     retry,
	}
	cites, err := citation.New(cfg.Citations, citation.Options{UserAgent: cfg.HTTP.UserAgent, Retry: retry})
	if err != nil {
		return err
	}

	res, err := corpus.New(cfg, searcher, cites, os.Stderr).Build(ctx)
	if err != nil {
		return err
	}
	if len(res.Papers) == 0 {
		fmt.Fprintln(os.Stderr, "warning: no matching papers found, nothing written")
		return nil
	}

	opts := persist.Options{
		DataDir:   cfg.Output.DataDir,
		DocsDir:   cfg.Output.DocsDir,
		Partition: cfg.Output.Partition,
	}
	if err := persist.Write(res.Papers, opts, os.Stdout); err != nil {
		return err
	}

	if cfg.Output.CSL {
		path := filepath.Join(cfg.Output.DocsDir, cslFile)
		if err := persist.WriteCSL(path, res.Papers); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "wrote bibliography to %s\n", path)
	}

	if cfg.Output.CatalogDB != "" {
		run := catalog.Run{
			StartedAt: started,
			Query:     search.BuildQuery(cfg.Sources.Arxiv.Categories, cfg.Sources.Arxiv.QueryTerms),
			Scanned:   res.Scanned,
		}
		if err := exportCatalog(ctx, cfg.Output.CatalogDB, run, res.Papers, os.Stdout); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "done: %d papers (%d high impact) in %s\n",
		len(res.Papers), res.HighImpact, time.Since(started).Round(time.Second))
	return nil
}

// overrideKeys are the settings that flags and PAPER_FEED_* variables can
// override.
var overrideKeys = []string{"days-back", "max-results", "data-dir", "docs-dir", "selection"}

// loadConfig reads the config file named by v and layers flag and
// environment overrides on top. Unrecognized category names are reported
// to w.
func loadConfig(v *viper.Viper, w io.Writer) (types.Config, error) {
	path := v.GetString("config")
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return types.Config{}, err
	}
	if err := applyOverrides(&cfg, v); err != nil {
		return types.Config{}, err
	}
	for _, name := range classify.Default().Unrecognized(cfg.Categories) {
		fmt.Fprintf(w, "warning: category %q matches no classification rule and will never be tagged\n", name)
	}
	return cfg, nil
}

// applyOverrides copies set override keys from v into cfg and revalidates.
func applyOverrides(cfg *types.Config, v *viper.Viper) error {
	if v.IsSet("days-back") && v.GetInt("days-back") > 0 {
		cfg.Sources.Arxiv.DaysBack = v.GetInt("days-back")
	}
	if v.IsSet("max-results") && v.GetInt("max-results") > 0 {
		cfg.Sources.Arxiv.MaxResults = v.GetInt("max-results")
	}
	if s := v.GetString("data-dir"); s != "" {
		cfg.Output.DataDir = s
	}
	if s := v.GetString("docs-dir"); s != "" {
		cfg.Output.DocsDir = s
	}
	if s := v.GetString("selection"); s != "" {
		cfg.Sources.Arxiv.Selection = types.SelectionPolicy(s)
	}
	if err := config.Validate(*cfg); err != nil {
		return fmt.Errorf("invalid override: %w", err)
	}
	return nil
}

func exportCatalog(ctx context.Context, path string, run catalog.Run, papers []types.PaperRecord, w io.Writer) error {
	store, err := catalog.Create(path)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.WriteRun(ctx, run, papers)
	if err != nil {
		return err
	}
	counts, err := store.TagCounts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote catalog %s (run %s)\n", path, id)
	for _, tc := range counts {
		fmt.Fprintf(w, "  %-24s %d\n", tc.Tag, tc.Count)
	}
	return nil
}
