// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search retrieves raw paper metadata from preprint repositories.
package search

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/pdiddy/paper-feed/pkg/types"
)

// Searcher yields raw results for a query. The sequence is lazy, finite and
// can be ranged over once; an error ends it.
type Searcher interface {
	Name() string
	Results(ctx context.Context, req Request) iter.Seq2[types.RawResult, error]
}

// Request is one search: a query string, a result cap and paging settings.
// Results are always sorted by submission date, newest first.
type Request struct {
	Query      string
	MaxResults int
	PageSize   int
	PageDelay  time.Duration
}

// DefaultQueryTerms are the fluid-dynamics terms ORed into every query.
// Machine-learning terms are left out so the source does not over-filter.
var DefaultQueryTerms = []string{
	"CFD", "fluid dynamics", "计算流体力学", "turbulence", "aerodynamics", "multiphase flow",
}

// BuildQuery ANDs "cat:" filters for each category with a parenthesised OR
// of the terms, e.g. "cat:physics.flu-dyn AND (CFD OR turbulence)".
// Empty terms fall back to DefaultQueryTerms.
func BuildQuery(categories, terms []string) string {
	if len(terms) == 0 {
		terms = DefaultQueryTerms
	}
	parts := make([]string, 0, len(categories)+1)
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, "cat:"+c)
		}
	}
	parts = append(parts, "("+strings.Join(terms, " OR ")+")")
	return strings.Join(parts, " AND ")
}
