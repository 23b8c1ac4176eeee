// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/paper-feed/internal/httputil"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlex reads cited_by_count from the top works search hit.
type OpenAlex struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email     string
	UserAgent string
	Retry     httputil.RetryPolicy
}

// Name returns the provider identifier.
func (o *OpenAlex) Name() string { return ProviderOpenAlex }

// Count searches works by title and returns the first hit's count.
func (o *OpenAlex) Count(ctx context.Context, title string) (*int, error) {
	params := url.Values{
		"search":   {title},
		"per_page": {"1"},
		"select":   {"id,display_name,cited_by_count"},
	}
	if o.Email != "" {
		params.Set("mailto", o.Email)
	}
	reqURL := openAlexSearchBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if o.UserAgent != "" {
		req.Header.Set("User-Agent", o.UserAgent)
	}

	resp, err := httputil.Do(ctx, o.Client, req, o.Retry)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var or openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	if len(or.Results) == 0 {
		return nil, nil
	}
	return or.Results[0].CitedByCount, nil
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	CitedByCount *int   `json:"cited_by_count"`
}
