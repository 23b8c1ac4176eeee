// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus runs one fetch-and-enrich pass: it searches the configured
// source, drops out-of-window and untagged papers, enriches the rest, and
// selects the output set.
package corpus

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/paper-feed/internal/citation"
	"github.com/pdiddy/paper-feed/internal/classify"
	"github.com/pdiddy/paper-feed/internal/keywords"
	"github.com/pdiddy/paper-feed/internal/search"
	"github.com/pdiddy/paper-feed/internal/venue"
	"github.com/pdiddy/paper-feed/pkg/types"
)

// Builder holds the collaborators of one build. Citations may be nil, in
// which case counts stay unknown. Now and Out default to time.Now and
// io.Discard.
type Builder struct {
	Config     types.Config
	Searcher   search.Searcher
	Citations  citation.Source
	Classifier *classify.Classifier
	Extractor  *keywords.Extractor
	Resolver   *venue.Resolver
	Now        func() time.Time
	Out        io.Writer
}

// Result is the outcome of a build. Papers is the selected output; the
// counters describe what was scanned and why records were dropped.
type Result struct {
	Papers     []types.PaperRecord
	HighImpact int
	Other      int
	Scanned    int
	TooOld     int
	Untagged   int
}

// New returns a Builder wired with the default classifier and the
// extractor and resolver derived from cfg.
func New(cfg types.Config, s search.Searcher, citations citation.Source, out io.Writer) *Builder {
	return &Builder{
		Config:     cfg,
		Searcher:   s,
		Citations:  citations,
		Classifier: classify.Default(),
		Extractor:  keywords.NewExtractor(cfg.Categories),
		Resolver:   venue.NewResolver(cfg.Venues.All(), cfg.ImpactFactors),
		Now:        time.Now,
		Out:        out,
	}
}

// Build runs the search and enrichment pass. A search failure aborts the
// build; citation failures only leave counts unknown.
func (b *Builder) Build(ctx context.Context) (Result, error) {
	var res Result
	out := b.log()
	src := b.Config.Sources.Arxiv
	if !src.Enabled {
		fmt.Fprintln(out, "warning: arxiv source is disabled, nothing to fetch")
		return res, nil
	}
	if b.Searcher == nil {
		return res, fmt.Errorf("no searcher configured")
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	cutoff := now().UTC().AddDate(0, 0, -src.DaysBack)

	query := search.BuildQuery(src.Categories, src.QueryTerms)
	fmt.Fprintf(out, "searching %s: %s (last %d days, at most %d results)\n",
		b.Searcher.Name(), query, src.DaysBack, src.MaxResults)

	req := search.Request{
		Query:      query,
		MaxResults: src.MaxResults,
		PageSize:   src.PageSize,
		PageDelay:  src.PageDelay,
	}

	var tagged []types.PaperRecord
	for raw, err := range b.Searcher.Results(ctx, req) {
		if err != nil {
			return Result{}, fmt.Errorf("searching %s: %w", b.Searcher.Name(), err)
		}
		res.Scanned++
		if !WithinWindow(raw.Published, cutoff) {
			res.TooOld++
			continue
		}

		p, ok := b.enrich(ctx, raw)
		if !ok {
			res.Untagged++
			continue
		}
		tagged = append(tagged, p)
	}

	high, other := Partition(tagged, src.HighImpactThreshold)
	res.HighImpact = len(high)
	res.Other = len(other)
	switch src.Selection {
	case types.SelectAsFound:
		res.Papers = Select(tagged, nil, src.MaxResults)
	default:
		res.Papers = Select(high, other, src.MaxResults)
	}

	fmt.Fprintf(out, "scanned %d, too old %d, untagged %d, high impact %d, other %d, selected %d\n",
		res.Scanned, res.TooOld, res.Untagged, res.HighImpact, res.Other, len(res.Papers))
	return res, nil
}

func (b *Builder) log() io.Writer {
	if b.Out == nil {
		return io.Discard
	}
	return b.Out
}

// enrich builds the record for raw and reports whether it carries any tag.
// Untagged records are returned early, before the citation lookup.
func (b *Builder) enrich(ctx context.Context, raw types.RawResult) (types.PaperRecord, bool) {
	p := NewRecord(raw)

	p.Conference = b.Resolver.Resolve(p.Comment, p.JournalRef)
	p.Tags = b.Classifier.Classify(p.Title, p.Abstract, b.Config.Categories)
	if len(p.Tags) == 0 {
		return p, false
	}
	b.Extractor.Apply(&p, b.Config.Keywords.Mode)
	p.CitationCount = citation.Lookup(ctx, b.Citations, p.Title, b.log())
	p.ImpactFactor = b.Resolver.Impact(p.Conference, p.Categories)
	p.CodeLink = FindCodeLink(p.Comment, p.Abstract)
	return p, true
}

// NewRecord converts a raw search result into an unenriched record.
func NewRecord(raw types.RawResult) types.PaperRecord {
	arxivURL := raw.AbstractURL
	if arxivURL == "" {
		arxivURL = raw.EntryID
	}
	return types.PaperRecord{
		ID:               PaperID(raw.EntryID),
		Title:            raw.Title,
		Authors:          strings.Join(raw.Authors, ", "),
		Abstract:         strings.TrimSpace(strings.ReplaceAll(raw.Summary, "\n", " ")),
		Published:        types.NewDate(raw.Published),
		ArxivURL:         arxivURL,
		PDFURL:           raw.PDFURL,
		Categories:       nonNil(raw.Categories),
		Tags:             []string{},
		OfficialKeywords: []string{},
		CustomKeywords:   []string{},
		Keywords:         []string{},
		Comment:          raw.Comment,
		JournalRef:       raw.JournalRef,
	}
}

// PaperID returns the last path segment of an entry id URL, version
// suffix included.
func PaperID(entryID string) string {
	entryID = strings.TrimRight(entryID, "/")
	if i := strings.LastIndex(entryID, "/"); i >= 0 {
		return entryID[i+1:]
	}
	return entryID
}

// WithinWindow reports whether published is at or after cutoff.
func WithinWindow(published, cutoff time.Time) bool {
	return !published.Before(cutoff)
}

// Select fills up to limit records with high first, then other, keeping
// each bucket's order. A non-positive limit selects nothing.
func Select(high, other []types.PaperRecord, limit int) []types.PaperRecord {
	if limit <= 0 {
		return []types.PaperRecord{}
	}
	selected := make([]types.PaperRecord, 0, min(limit, len(high)+len(other)))
	selected = append(selected, high[:min(limit, len(high))]...)
	if rest := limit - len(selected); rest > 0 {
		selected = append(selected, other[:min(rest, len(other))]...)
	}
	return selected
}

// Partition splits papers into those whose impact score is present and at
// least threshold, and the rest. Both keep the input order.
func Partition(papers []types.PaperRecord, threshold float64) (high, other []types.PaperRecord) {
	for _, p := range papers {
		if p.HasImpact(threshold) {
			high = append(high, p)
		} else {
			other = append(other, p)
		}
	}
	return high, other
}

var codeLinkPattern = regexp.MustCompile(`https?://(?:www\.)?(?:github\.com|gitlab\.com)/[\w.-]+/[\w.-]+`)

// FindCodeLink returns the first GitHub or GitLab repository URL in the
// given texts, or "".
func FindCodeLink(texts ...string) string {
	for _, t := range texts {
		if m := codeLinkPattern.FindString(t); m != "" {
			return strings.TrimRight(m, ".")
		}
	}
	return ""
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
