// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-feed/internal/classify"
	"github.com/pdiddy/paper-feed/internal/corpus"
	"github.com/pdiddy/paper-feed/internal/keywords"
	"github.com/pdiddy/paper-feed/internal/persist"
	"github.com/pdiddy/paper-feed/internal/venue"
	"github.com/pdiddy/paper-feed/pkg/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Show how a title and abstract would be tagged",
	Long: `Classify runs the tagging, keyword, and venue rules of the current config
over the given text without any network access. Use it to tune category
keywords and venue lists.`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().String("title", "", "paper title")
	classifyCmd.Flags().String("abstract", "", "paper abstract")
	classifyCmd.Flags().String("comment", "", "submitter comment (venue and keyword source)")
	classifyCmd.Flags().Bool("json", false, "output the record as JSON")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	abstract, _ := cmd.Flags().GetString("abstract")
	comment, _ := cmd.Flags().GetString("comment")
	if title == "" && abstract == "" {
		return fmt.Errorf("--title or --abstract required")
	}

	cfg, err := loadConfig(viper.GetViper(), os.Stderr)
	if err != nil {
		return err
	}

	p := classifyText(cfg, title, abstract, comment)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		data, err := persist.Marshal(p)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	printRecord(os.Stdout, p)
	return nil
}

// classifyText applies the offline enrichment steps to ad hoc text.
func classifyText(cfg types.Config, title, abstract, comment string) types.PaperRecord {
	p := corpus.NewRecord(types.RawResult{Title: title, Summary: abstract, Comment: comment})
	venue.NewResolver(cfg.Venues.All(), cfg.ImpactFactors).Apply(&p)
	p.Tags = classify.Default().Classify(p.Title, p.Abstract, cfg.Categories)
	keywords.NewExtractor(cfg.Categories).Apply(&p, cfg.Keywords.Mode)
	p.CodeLink = corpus.FindCodeLink(p.Comment, p.Abstract)
	return p
}

func printRecord(w io.Writer, p types.PaperRecord) {
	tags := "(none, would be dropped)"
	if len(p.Tags) > 0 {
		tags = strings.Join(p.Tags, ", ")
	}
	fmt.Fprintf(w, "tags:              %s\n", tags)
	fmt.Fprintf(w, "official keywords: %s\n", strings.Join(p.OfficialKeywords, ", "))
	fmt.Fprintf(w, "custom keywords:   %s\n", strings.Join(p.CustomKeywords, ", "))
	fmt.Fprintf(w, "keywords:          %s\n", strings.Join(p.Keywords, ", "))
	fmt.Fprintf(w, "venue:             %s\n", p.Conference)
	if p.ImpactFactor != nil {
		fmt.Fprintf(w, "impact factor:     %.1f\n", *p.ImpactFactor)
	}
	if p.CodeLink != "" {
		fmt.Fprintf(w, "code:              %s\n", p.CodeLink)
	}
}
