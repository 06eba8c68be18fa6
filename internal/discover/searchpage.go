// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/site-resolver/internal/httputil"
	"github.com/pdiddy/site-resolver/pkg/types"
)

// DefaultEndpoint is the search page queried when none is configured.
const DefaultEndpoint = "https://www.google.com/search"

// SearchPage discovers candidates by fetching one HTML result page and
// reading its outbound links.
type SearchPage struct {
	Client *http.Client
	Config types.SearchConfig
}

// NewSearchPage builds a SearchPage whose client honors cfg.Timeout (zero
// leaves the request unbounded).
func NewSearchPage(cfg types.SearchConfig) *SearchPage {
	return &SearchPage{
		Client: httputil.NewClient(cfg.Timeout),
		Config: cfg,
	}
}

// Name returns the backend identifier.
func (s *SearchPage) Name() string { return "search_page" }

// Discover fetches the result page for query and extracts candidate URLs.
// Request failures and non-200 responses are returned as
// *httputil.TransportError.
func (s *SearchPage) Discover(ctx context.Context, query string) ([]string, error) {
	reqURL, err := s.searchURL(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httputil.SetBrowserHeaders(req, s.Config.UserAgent)
	if s.Config.Cookie != "" {
		req.Header.Set("Cookie", s.Config.Cookie)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &httputil.TransportError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httputil.TransportError{URL: reqURL, StatusCode: resp.StatusCode}
	}

	body, err := httputil.DecodeBody(resp)
	if err != nil {
		return nil, &httputil.TransportError{URL: reqURL, Err: err}
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, &httputil.TransportError{URL: reqURL, Err: fmt.Errorf("parsing result page: %w", err)}
	}

	return ExtractCandidates(doc, s.Config.MaxCandidates, s.Config.RedirectPrefix), nil
}

// searchURL appends the q parameter to the endpoint, keeping any parameters
// the endpoint already carries.
func (s *SearchPage) searchURL(query string) (string, error) {
	endpoint := s.Config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing search endpoint %q: %w", endpoint, err)
	}
	params := u.Query()
	params.Set("q", query)
	u.RawQuery = params.Encode()
	return u.String(), nil
}
