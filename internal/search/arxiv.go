// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/pdiddy/paper-feed/internal/httputil"
	"github.com/pdiddy/paper-feed/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const defaultPageSize = 100

// ArxivBackend queries the arXiv API, one page at a time.
type ArxivBackend struct {
	Client    *http.Client
	UserAgent string
	Retry     httputil.RetryPolicy
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() string { return "arxiv" }

// Results pages through the arXiv API newest submission first. Paging stops
// at req.MaxResults entries, at the end of the result set, or at the first
// error, which is yielded once.
func (b *ArxivBackend) Results(ctx context.Context, req Request) iter.Seq2[types.RawResult, error] {
	return func(yield func(types.RawResult, error) bool) {
		if req.Query == "" {
			yield(types.RawResult{}, fmt.Errorf("empty arXiv query"))
			return
		}
		pageSize := req.PageSize
		if pageSize <= 0 {
			pageSize = defaultPageSize
		}

		fetched := 0
		for fetched < req.MaxResults {
			if fetched > 0 && req.PageDelay > 0 {
				select {
				case <-ctx.Done():
					yield(types.RawResult{}, ctx.Err())
					return
				case <-time.After(req.PageDelay):
				}
			}

			n := min(pageSize, req.MaxResults-fetched)
			feed, err := b.fetchPage(ctx, req.Query, fetched, n)
			if err != nil {
				yield(types.RawResult{}, err)
				return
			}
			if len(feed.Entries) == 0 {
				return
			}
			for _, entry := range feed.Entries {
				fetched++
				if !yield(toRawResult(entry), nil) {
					return
				}
				if fetched >= req.MaxResults {
					return
				}
			}
			if total := totalResults(feed); total > 0 && fetched >= total {
				return
			}
		}
	}
}

func (b *ArxivBackend) fetchPage(ctx context.Context, query string, start, n int) (*atom.Feed, error) {
	params := url.Values{
		"search_query": {query},
		"start":        {strconv.Itoa(start)},
		"max_results":  {strconv.Itoa(n)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	resp, err := httputil.Do(ctx, b.Client, req, b.Retry)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	feed, err := (&atom.Parser{}).Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return feed, nil
}

// toRawResult maps an Atom entry to a RawResult. arXiv puts comment,
// journal reference and DOI in its own namespace, which the Atom parser
// exposes as extensions.
func toRawResult(e *atom.Entry) types.RawResult {
	r := types.RawResult{
		EntryID:     strings.TrimSpace(e.ID),
		Title:       strings.Join(strings.Fields(e.Title), " "),
		Summary:     strings.TrimSpace(e.Summary),
		Comment:     extensionValue(e.Extensions, "comment"),
		JournalRef:  extensionValue(e.Extensions, "journal_ref"),
		DOI:         extensionValue(e.Extensions, "doi"),
		AbstractURL: strings.TrimSpace(e.ID),
	}

	for _, a := range e.Authors {
		if a != nil && a.Name != "" {
			r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
		}
	}
	for _, c := range e.Categories {
		if c != nil && c.Term != "" {
			r.Categories = append(r.Categories, c.Term)
		}
	}

	switch {
	case e.PublishedParsed != nil:
		r.Published = e.PublishedParsed.UTC()
	case e.Published != "":
		if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
			r.Published = t.UTC()
		}
	}

	for _, l := range e.Links {
		if l == nil {
			continue
		}
		switch {
		case l.Title == "pdf" || l.Type == "application/pdf":
			r.PDFURL = l.Href
		case l.Rel == "alternate":
			r.AbstractURL = l.Href
		}
	}
	return r
}

// extensionValue returns the trimmed text of the first extension element
// with the given name, preferring the "arxiv" prefix.
func extensionValue(exts ext.Extensions, name string) string {
	if vals := exts["arxiv"][name]; len(vals) > 0 {
		return strings.TrimSpace(vals[0].Value)
	}
	for _, byName := range exts {
		if vals := byName[name]; len(vals) > 0 {
			return strings.TrimSpace(vals[0].Value)
		}
	}
	return ""
}

// totalResults reads opensearch:totalResults from the feed, or 0.
func totalResults(feed *atom.Feed) int {
	v := extensionValue(feed.Extensions, "totalResults")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
