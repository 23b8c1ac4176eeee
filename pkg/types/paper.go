// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of the paper-feed pipeline:
// the raw search result, the enriched paper record written for the front end,
// and the configuration sections each stage reads.
package types

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a UTC calendar date serialised as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	u := t.UTC()
	return Date{time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String returns the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MonthKey returns the YYYY-MM partition key for the date.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// MarshalJSON writes the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted YYYY-MM-DD string; an empty string leaves
// the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// PaperRecord is one enriched paper as written to the output files.
// CitationCount and ImpactFactor are pointers: nil means unknown, and zero
// is a valid value for both.
type PaperRecord struct {
	// ID is the last path segment of the source entry id (e.g. "2501.01234v1").
	ID string `json:"id"`

	Title string `json:"title"`

	// Authors is the author list joined with ", ".
	Authors string `json:"authors"`

	Abstract  string `json:"abstract"`
	Published Date   `json:"published"`

	// ArxivURL is the abstract page; PDFURL the PDF link.
	ArxivURL string `json:"arxiv_url"`
	PDFURL   string `json:"pdf_url"`

	// Categories are the source category codes (e.g. "physics.flu-dyn").
	Categories []string `json:"categories"`

	// Conference is the resolved venue name, empty when nothing matched.
	Conference string `json:"conference"`

	// CodeLink is a code repository URL found in the comment or abstract.
	CodeLink string `json:"code_link"`

	Tags             []string `json:"tags"`
	OfficialKeywords []string `json:"official_keywords"`
	CustomKeywords   []string `json:"custom_keywords"`
	Keywords         []string `json:"keywords"`

	CitationCount *int     `json:"citation_count,omitempty"`
	ImpactFactor  *float64 `json:"impact_factor,omitempty"`

	// Comment is the submitter's free-form comment. It feeds venue and
	// keyword matching but is not part of the output schema.
	Comment string `json:"-"`

	// JournalRef is the source journal reference, used as a venue fallback.
	JournalRef string `json:"-"`
}

// HasImpact reports whether an impact score is present and at least min.
func (p *PaperRecord) HasImpact(min float64) bool {
	return p.ImpactFactor != nil && *p.ImpactFactor >= min
}

// RawResult is one record yielded by the search collaborator before
// enrichment.
type RawResult struct {
	// EntryID is the unique id URL of the entry (e.g. "http://arxiv.org/abs/2501.01234v1").
	EntryID    string
	Title      string
	Summary    string
	Authors    []string
	Published  time.Time
	Categories []string

	// Comment may be empty; arXiv omits it when the submitter gave none.
	Comment    string
	JournalRef string
	DOI        string

	AbstractURL string
	PDFURL      string
}
