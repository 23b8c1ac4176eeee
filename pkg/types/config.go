// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-feed/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CategoryDefinition is one topical category and the keywords that signal it.
// Keywords match case-insensitively.
type CategoryDefinition struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Categories is the ordered list of configured categories. In the config
// file it is a mapping of name to {keywords: [...]}; mapping order is kept
// because keyword extraction reports vocabulary terms in that order.
type Categories []CategoryDefinition

// UnmarshalYAML decodes the name -> {keywords} mapping preserving key order.
func (c *Categories) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: categories must be a mapping of name to {keywords: [...]}", node.Line)
	}
	out := make(Categories, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var body struct {
			Keywords []string `yaml:"keywords"`
		}
		if err := node.Content[i+1].Decode(&body); err != nil {
			return fmt.Errorf("category %q: %w", node.Content[i].Value, err)
		}
		out = append(out, CategoryDefinition{Name: node.Content[i].Value, Keywords: body.Keywords})
	}
	*c = out
	return nil
}

// Names returns the category names in configured order.
func (c Categories) Names() []string {
	names := make([]string, len(c))
	for i, cat := range c {
		names[i] = cat.Name
	}
	return names
}

// ImpactEntry maps a venue name to its impact or ranking score.
type ImpactEntry struct {
	Name  string  `json:"name" yaml:"name"`
	Score float64 `json:"score" yaml:"score"`
}

// ImpactFactors is an ordered venue -> score table. In the config file it is
// a mapping; entry order decides which key wins when several match.
type ImpactFactors []ImpactEntry

// UnmarshalYAML decodes the name -> score mapping preserving key order.
func (f *ImpactFactors) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: impact_factors must be a mapping of venue name to score", node.Line)
	}
	out := make(ImpactFactors, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var score float64
		if err := node.Content[i+1].Decode(&score); err != nil {
			return fmt.Errorf("impact factor %q: %w", node.Content[i].Value, err)
		}
		out = append(out, ImpactEntry{Name: node.Content[i].Value, Score: score})
	}
	*f = out
	return nil
}

// VenueConfig lists the venue names matched against paper comments.
type VenueConfig struct {
	Conferences []string `json:"conferences" yaml:"conferences"`
	Journals    []string `json:"journals" yaml:"journals"`
}

// All returns conferences followed by journals, the order venues are tried in.
func (v VenueConfig) All() []string {
	all := make([]string, 0, len(v.Conferences)+len(v.Journals))
	all = append(all, v.Conferences...)
	return append(all, v.Journals...)
}

// SelectionPolicy decides how the final output set is chosen from the
// tagged records.
type SelectionPolicy string

const (
	// SelectRanked fills the cap with high-impact records first, then the rest.
	SelectRanked SelectionPolicy = "ranked"
	// SelectAsFound keeps every tagged record in source order.
	SelectAsFound SelectionPolicy = "as_found"
)

// ArxivSourceConfig holds settings for the arXiv data source.
type ArxivSourceConfig struct {
	// Enabled switches the source on. A disabled source yields no papers.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Categories are arXiv category codes ANDed into the query (e.g. "physics.flu-dyn").
	Categories []string `json:"categories" yaml:"categories"`

	// QueryTerms are ORed free-text terms; empty uses the built-in fluid terms.
	QueryTerms []string `json:"query_terms" yaml:"query_terms"`

	// MaxResults caps both the fetch and the selected output (default 1000).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// DaysBack is the window length; older submissions are dropped (default 180).
	DaysBack int `json:"days_back" yaml:"days_back"`

	// PageSize is the number of entries requested per API call (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// PageDelay is the pause between API pages (default 3s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// Selection is the output selection policy (default ranked).
	Selection SelectionPolicy `json:"selection" yaml:"selection"`

	// HighImpactThreshold is the minimum impact score of the ranked
	// high-impact bucket (default 3.0).
	HighImpactThreshold float64 `json:"high_impact_threshold" yaml:"high_impact_threshold"`
}

// SourcesConfig groups the data sources.
type SourcesConfig struct {
	Arxiv ArxivSourceConfig `json:"arxiv" yaml:"arxiv"`
}

// CitationConfig holds settings for citation count lookups.
type CitationConfig struct {
	// Enabled toggles lookups; nil means enabled.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Providers are tried in order until one returns a count
	// ("semantic_scholar", "openalex").
	Providers []string `json:"providers" yaml:"providers"`

	// Timeout bounds each lookup request (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// OpenAlexEmail is sent as mailto for the OpenAlex polite pool.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`
}

// IsEnabled reports whether citation lookups should run.
func (c CitationConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// KeywordMode selects how the keywords field is filled.
type KeywordMode string

const (
	// KeywordsUnion merges official and custom keywords, uncapped.
	KeywordsUnion KeywordMode = "union"
	// KeywordsCustom uses the capped custom extractor output only.
	KeywordsCustom KeywordMode = "custom"
)

// KeywordConfig holds keyword extraction settings.
type KeywordConfig struct {
	Mode KeywordMode `json:"mode" yaml:"mode"`
}

// Partition selects the data directory layout.
type Partition string

const (
	// PartitionMonthly writes data/<YYYY>-<MM>.json plus data/index.json.
	PartitionMonthly Partition = "monthly"
	// PartitionSingle writes data/papers.json.
	PartitionSingle Partition = "single"
)

// OutputConfig holds output locations.
type OutputConfig struct {
	// DataDir receives the partitioned data files (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DocsDir receives papers.json for the static front end (default "docs").
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	Partition Partition `json:"partition" yaml:"partition"`

	// CSL also writes docs/papers.csl.yaml when true.
	CSL bool `json:"csl" yaml:"csl"`

	// CatalogDB is an optional SQLite file rebuilt from each run's output.
	CatalogDB string `json:"catalog_db,omitempty" yaml:"catalog_db,omitempty"`
}

// Config is the whole configuration file.
type Config struct {
	Categories    Categories     `json:"categories" yaml:"categories"`
	Venues        VenueConfig    `json:"venues" yaml:"venues"`
	ImpactFactors ImpactFactors  `json:"impact_factors,omitempty" yaml:"impact_factors,omitempty"`
	Sources       SourcesConfig  `json:"sources" yaml:"sources"`
	Citations     CitationConfig `json:"citations" yaml:"citations"`
	Keywords      KeywordConfig  `json:"keywords" yaml:"keywords"`
	Output        OutputConfig   `json:"output" yaml:"output"`
	HTTP          HTTPConfig     `json:"http" yaml:"http"`
}
