// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-feed/pkg/types"
)

const feedHeader = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title>arXiv Query</title>
  <id>http://arxiv.org/api/q</id>
  <updated>2026-10-19T00:00:00-04:00</updated>
  <opensearch:totalResults>%d</opensearch:totalResults>
`

const entryTemplate = `  <entry>
    <id>http://arxiv.org/abs/%[1]s</id>
    <updated>2026-10-18T17:59:59Z</updated>
    <published>%[2]s</published>
    <title>Paper %[1]s:
      a study</title>
    <summary>  Abstract of %[1]s.
Keywords: turbulence, CFD
    </summary>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <arxiv:comment xmlns:arxiv="http://arxiv.org/schemas/atom">Accepted to Physics of Fluids</arxiv:comment>
    <arxiv:journal_ref xmlns:arxiv="http://arxiv.org/schemas/atom">Phys. Fluids 38 (2026)</arxiv:journal_ref>
    <link href="http://arxiv.org/abs/%[1]s" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/%[1]s" rel="related" type="application/pdf"/>
    <arxiv:primary_category xmlns:arxiv="http://arxiv.org/schemas/atom" term="physics.flu-dyn" scheme="http://arxiv.org/schemas/atom"/>
    <category term="physics.flu-dyn" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
`

// fakeArxiv serves total entries named 2610.000NNv1, newest first, honouring
// start and max_results.
func fakeArxiv(t *testing.T, total int, requests *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests = append(*requests, r.URL.RawQuery)
		q := r.URL.Query()
		start, _ := strconv.Atoi(q.Get("start"))
		n, _ := strconv.Atoi(q.Get("max_results"))

		var b strings.Builder
		fmt.Fprintf(&b, feedHeader, total)
		for i := start; i < start+n && i < total; i++ {
			published := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC).Add(-time.Duration(i) * 24 * time.Hour)
			fmt.Fprintf(&b, entryTemplate, fmt.Sprintf("2610.%05dv1", i), published.Format(time.RFC3339))
		}
		b.WriteString("</feed>\n")
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, b.String())
	}))
}

func withArxivBase(t *testing.T, url string) {
	t.Helper()
	old := arxivAPIBase
	arxivAPIBase = url
	t.Cleanup(func() { arxivAPIBase = old })
}

func collect(t *testing.T, s Searcher, req Request) ([]types.RawResult, error) {
	t.Helper()
	var out []types.RawResult
	for r, err := range s.Results(context.Background(), req) {
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}

func TestArxivResultsParsesEntry(t *testing.T) {
	var requests []string
	ts := fakeArxiv(t, 1, &requests)
	defer ts.Close()
	withArxivBase(t, ts.URL)

	b := &ArxivBackend{Client: ts.Client(), UserAgent: "test/0.1"}
	results, err := collect(t, b, Request{Query: "cat:physics.flu-dyn AND (CFD)", MaxResults: 10})
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}

	r := results[0]
	if r.EntryID != "http://arxiv.org/abs/2610.00000v1" {
		t.Errorf("EntryID = %q", r.EntryID)
	}
	if r.Title != "Paper 2610.00000v1: a study" {
		t.Errorf("Title = %q, whitespace should collapse", r.Title)
	}
	if !strings.HasPrefix(r.Summary, "Abstract of 2610.00000v1.") || !strings.Contains(r.Summary, "Keywords: turbulence, CFD") {
		t.Errorf("Summary = %q", r.Summary)
	}
	if len(r.Authors) != 2 || r.Authors[1] != "Alan Turing" {
		t.Errorf("Authors = %q", r.Authors)
	}
	if r.Comment != "Accepted to Physics of Fluids" {
		t.Errorf("Comment = %q", r.Comment)
	}
	if r.JournalRef != "Phys. Fluids 38 (2026)" {
		t.Errorf("JournalRef = %q", r.JournalRef)
	}
	if r.PDFURL != "http://arxiv.org/pdf/2610.00000v1" {
		t.Errorf("PDFURL = %q", r.PDFURL)
	}
	if r.AbstractURL != "http://arxiv.org/abs/2610.00000v1" {
		t.Errorf("AbstractURL = %q", r.AbstractURL)
	}
	if len(r.Categories) != 2 || r.Categories[0] != "physics.flu-dyn" || r.Categories[1] != "cs.LG" {
		t.Errorf("Categories = %q", r.Categories)
	}
	if want := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC); !r.Published.Equal(want) {
		t.Errorf("Published = %v, want %v", r.Published, want)
	}
}

func TestArxivResultsRequestParams(t *testing.T) {
	var requests []string
	ts := fakeArxiv(t, 0, &requests)
	defer ts.Close()
	withArxivBase(t, ts.URL)

	b := &ArxivBackend{Client: ts.Client()}
	if _, err := collect(t, b, Request{Query: "cat:a AND (x OR y)", MaxResults: 50, PageSize: 20}); err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("requests = %d, want 1 (empty page ends paging)", len(requests))
	}
	for _, want := range []string{
		"search_query=cat%3Aa+AND+%28x+OR+y%29",
		"sortBy=submittedDate",
		"sortOrder=descending",
		"start=0",
		"max_results=20",
	} {
		if !strings.Contains(requests[0], want) {
			t.Errorf("query %q missing %q", requests[0], want)
		}
	}
}

func TestArxivResultsPagesUpToCap(t *testing.T) {
	var requests []string
	ts := fakeArxiv(t, 10, &requests)
	defer ts.Close()
	withArxivBase(t, ts.URL)

	b := &ArxivBackend{Client: ts.Client()}
	results, err := collect(t, b, Request{Query: "q", MaxResults: 5, PageSize: 2})
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("len(results) = %d, want 5", len(results))
	}
	if len(requests) != 3 {
		t.Errorf("requests = %d, want 3", len(requests))
	}
	if !strings.Contains(requests[2], "start=4") || !strings.Contains(requests[2], "max_results=1") {
		t.Errorf("last request = %q, want start=4 max_results=1", requests[2])
	}
	for i := 1; i < len(results); i++ {
		if results[i].Published.After(results[i-1].Published) {
			t.Errorf("results not newest first at %d", i)
		}
	}
}

func TestArxivResultsStopsAtTotal(t *testing.T) {
	var requests []string
	ts := fakeArxiv(t, 3, &requests)
	defer ts.Close()
	withArxivBase(t, ts.URL)

	b := &ArxivBackend{Client: ts.Client()}
	results, err := collect(t, b, Request{Query: "q", MaxResults: 100, PageSize: 2})
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("len(results) = %d, want 3", len(results))
	}
	if len(requests) != 2 {
		t.Errorf("requests = %d, want 2", len(requests))
	}
}

func TestArxivResultsEarlyBreak(t *testing.T) {
	var requests []string
	ts := fakeArxiv(t, 10, &requests)
	defer ts.Close()
	withArxivBase(t, ts.URL)

	b := &ArxivBackend{Client: ts.Client()}
	count := 0
	for _, err := range b.Results(context.Background(), Request{Query: "q", MaxResults: 10, PageSize: 2}) {
		if err != nil {
			t.Fatalf("Results: %v", err)
		}
		count++
		if count == 1 {
			break
		}
	}
	if len(requests) != 1 {
		t.Errorf("requests = %d, want 1 after early break", len(requests))
	}
}

func TestArxivResultsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()
	withArxivBase(t, ts.URL)

	b := &ArxivBackend{Client: ts.Client()}
	_, err := collect(t, b, Request{Query: "q", MaxResults: 10})
	if err == nil || !strings.Contains(err.Error(), "HTTP 503") {
		t.Errorf("expected HTTP 503 error, got %v", err)
	}
}

func TestArxivResultsEmptyQuery(t *testing.T) {
	b := &ArxivBackend{Client: http.DefaultClient}
	_, err := collect(t, b, Request{MaxResults: 10})
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected empty query error, got %v", err)
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name  string
		cats  []string
		terms []string
		want  string
	}{
		{
			name:  "categories and terms",
			cats:  []string{"physics.flu-dyn", "cs.LG"},
			terms: []string{"CFD", "turbulence"},
			want:  "cat:physics.flu-dyn AND cat:cs.LG AND (CFD OR turbulence)",
		},
		{
			name:  "no categories",
			terms: []string{"CFD"},
			want:  "(CFD)",
		},
		{
			name: "default terms",
			cats: []string{"physics.flu-dyn"},
			want: "cat:physics.flu-dyn AND (CFD OR fluid dynamics OR 计算流体力学 OR turbulence OR aerodynamics OR multiphase flow)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.cats, tt.terms); got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildQueryHasNoMLTerms(t *testing.T) {
	q := strings.ToLower(BuildQuery(nil, nil))
	for _, term := range []string{"machine learning", "deep learning", "neural"} {
		if strings.Contains(q, term) {
			t.Errorf("default query %q should not contain %q", q, term)
		}
	}
}
