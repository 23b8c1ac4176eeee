// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation looks up citation counts for paper titles. Lookups are
// best effort: a failed lookup leaves the count unknown and never stops a
// run.
package citation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/paper-feed/internal/httputil"
	"github.com/pdiddy/paper-feed/pkg/types"
)

// Provider names accepted in citations.providers.
const (
	ProviderSemanticScholar = "semantic_scholar"
	ProviderOpenAlex        = "openalex"
)

// Source returns the citation count of the best title match. A nil count
// with a nil error means the source found nothing.
type Source interface {
	Name() string
	Count(ctx context.Context, title string) (*int, error)
}

// Chain tries its sources in order; the first non-nil count wins.
type Chain []Source

// Name returns the provider names joined with "+".
func (c Chain) Name() string {
	name := ""
	for i, s := range c {
		if i > 0 {
			name += "+"
		}
		name += s.Name()
	}
	return name
}

// Count asks each source in turn. Errors from earlier sources are returned
// only when no later source produced a count.
func (c Chain) Count(ctx context.Context, title string) (*int, error) {
	var errs []error
	for _, s := range c {
		n, err := s.Count(ctx, title)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if n != nil {
			return n, nil
		}
	}
	return nil, errors.Join(errs...)
}

// Options carries the shared HTTP settings for building sources.
type Options struct {
	Client    *http.Client
	UserAgent string
	Retry     httputil.RetryPolicy
}

// New builds the configured provider chain. It returns nil when lookups
// are disabled.
func New(cfg types.CitationConfig, opts Options) (Source, error) {
	if !cfg.IsEnabled() {
		return nil, nil
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	var chain Chain
	for _, p := range cfg.Providers {
		switch p {
		case ProviderSemanticScholar:
			chain = append(chain, &SemanticScholar{
				Client:    client,
				APIKey:    cfg.SemanticScholarAPIKey,
				UserAgent: opts.UserAgent,
				Retry:     opts.Retry,
			})
		case ProviderOpenAlex:
			chain = append(chain, &OpenAlex{
				Client:    client,
				Email:     cfg.OpenAlexEmail,
				UserAgent: opts.UserAgent,
				Retry:     opts.Retry,
			})
		default:
			return nil, fmt.Errorf("unknown citation provider %q", p)
		}
	}
	if len(chain) == 0 {
		return nil, nil
	}
	return chain, nil
}

// Lookup returns the citation count for title or nil when it is unknown.
// A nil source or empty title yields nil. Failures are reported to w as
// warnings and otherwise swallowed.
func Lookup(ctx context.Context, src Source, title string, w io.Writer) *int {
	if src == nil || title == "" {
		return nil
	}
	n, err := src.Count(ctx, title)
	if err != nil {
		fmt.Fprintf(w, "warning: citation lookup for %q failed: %v\n", title, err)
		return nil
	}
	return n
}
