// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify decides which discovered candidate, if any, is an
// institution's official website by fetching each page and inspecting its
// title.
package verify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/site-resolver/internal/httputil"
	"github.com/pdiddy/site-resolver/internal/logging"
	"github.com/pdiddy/site-resolver/pkg/types"
)

// DefaultTimeout bounds each candidate request.
const DefaultTimeout = 5 * time.Second

// DefaultKeywords mark a page title as belonging to an official site.
var DefaultKeywords = []string{"official", "company"}

// Verifier picks the first qualifying URL from an ordered candidate list.
type Verifier interface {
	Verify(ctx context.Context, candidates []string) (string, bool)
}

// Page is what a probe learned about one candidate.
type Page struct {
	URL        string
	StatusCode int
	Title      string
	Duration   time.Duration
}

// TitleVerifier probes candidates with a colly collector and accepts the
// first page that answers 200 with a title containing one of its keywords.
type TitleVerifier struct {
	keywords []string
	base     *colly.Collector
	logger   *zap.Logger
}

// New builds a TitleVerifier. Zero values in cfg fall back to DefaultTimeout,
// DefaultKeywords, and httputil.DefaultUserAgent.
func New(cfg types.VerifyConfig, logger *zap.Logger) *TitleVerifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = httputil.DefaultUserAgent
	}

	// The same candidate can surface for several institutions, so revisits
	// must be allowed or the collector would refuse the second probe.
	c := colly.NewCollector(colly.AllowURLRevisit())
	c.UserAgent = userAgent
	c.WithTransport(httputil.NewTransport())
	c.SetRequestTimeout(timeout)

	return &TitleVerifier{
		keywords: keywords,
		base:     c,
		logger:   logging.OrNop(logger),
	}
}

// Verify probes candidates in order and returns the first official match.
// Failed, timed-out, and non-200 candidates are skipped.
func (v *TitleVerifier) Verify(ctx context.Context, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return "", false
		}

		page, err := v.Probe(ctx, candidate)
		if err != nil {
			v.logger.Debug("candidate skipped", zap.String("url", candidate), zap.Error(err))
			continue
		}
		if page.StatusCode != http.StatusOK {
			v.logger.Debug("candidate skipped",
				zap.String("url", candidate), zap.Int("status", page.StatusCode))
			continue
		}
		if MatchesTitle(page.Title, v.keywords) {
			v.logger.Debug("candidate matched",
				zap.String("url", candidate), zap.String("title", page.Title),
				zap.Duration("duration", page.Duration))
			return candidate, true
		}
		v.logger.Debug("title did not match",
			zap.String("url", candidate), zap.String("title", page.Title))
	}
	return "", false
}

// Probe fetches rawURL once and reports its status and first <title> text.
// Transport failures, timeouts, and error statuses return a
// *httputil.TransportError.
func (v *TitleVerifier) Probe(ctx context.Context, rawURL string) (Page, error) {
	var (
		page     Page
		fetchErr error
		seen     bool
	)
	start := time.Now()
	collector := v.base.Clone()

	collector.OnResponse(func(r *colly.Response) {
		page.URL = r.Request.URL.String()
		page.StatusCode = r.StatusCode
	})
	collector.OnHTML("title", func(e *colly.HTMLElement) {
		if seen {
			return
		}
		seen = true
		page.Title = strings.TrimSpace(e.Text)
	})
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
		if r != nil {
			page.StatusCode = r.StatusCode
		}
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case <-ctx.Done():
		return Page{}, fmt.Errorf("probe canceled: %w", ctx.Err())
	case err := <-done:
		page.Duration = time.Since(start)
		if err == nil {
			err = fetchErr
		}
		if err != nil {
			return page, &httputil.TransportError{URL: rawURL, StatusCode: page.StatusCode, Err: err}
		}
		return page, nil
	}
}

// MatchesTitle reports whether the lower-cased title contains any keyword.
// An empty title never matches.
func MatchesTitle(title string, keywords []string) bool {
	lower := cases.Lower(language.Und)
	t := lower.String(strings.TrimSpace(title))
	if t == "" {
		return false
	}
	for _, k := range keywords {
		k = lower.String(strings.TrimSpace(k))
		if k != "" && strings.Contains(t, k) {
			return true
		}
	}
	return false
}
