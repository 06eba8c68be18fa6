// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns one institution name into a Resolution by running
// candidate discovery followed by title verification.
package resolve

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/site-resolver/internal/discover"
	"github.com/pdiddy/site-resolver/internal/logging"
	"github.com/pdiddy/site-resolver/internal/verify"
	"github.com/pdiddy/site-resolver/pkg/types"
)

// Resolver wires a discovery backend to a verifier.
type Resolver struct {
	discoverer    discover.Discoverer
	verifier      verify.Verifier
	queryTemplate string
	out           io.Writer
	logger        *zap.Logger
}

// New returns a Resolver. Timing lines are printed to out; an empty
// template falls back to discover.DefaultQueryTemplate.
func New(d discover.Discoverer, v verify.Verifier, template string, out io.Writer, logger *zap.Logger) *Resolver {
	if template == "" {
		template = discover.DefaultQueryTemplate
	}
	if out == nil {
		out = io.Discard
	}
	return &Resolver{
		discoverer:    d,
		verifier:      v,
		queryTemplate: template,
		out:           out,
		logger:        logging.OrNop(logger),
	}
}

// Resolve searches for name and returns the first verified candidate.
// Discovery failures are logged and treated as an empty candidate list, so
// the result is always either matched or unmatched.
func (r *Resolver) Resolve(ctx context.Context, name string) types.Resolution {
	res := types.Resolution{Status: types.StatusUnmatched}
	if strings.TrimSpace(name) == "" {
		r.logger.Debug("blank name, skipping lookup")
		return res
	}

	res.Query = discover.BuildQuery(r.queryTemplate, name)

	start := time.Now()
	candidates, err := r.discoverer.Discover(ctx, res.Query)
	res.SearchDuration = time.Since(start)
	fmt.Fprintf(r.out, "Search took %.2f seconds\n", res.SearchDuration.Seconds())
	if err != nil {
		res.SearchError = err.Error()
		r.logger.Warn("discovery failed",
			zap.String("backend", r.discoverer.Name()),
			zap.String("query", res.Query),
			zap.Error(err))
		return res
	}
	res.Candidates = candidates
	r.logger.Debug("candidates discovered",
		zap.String("query", res.Query), zap.Strings("candidates", candidates))

	start = time.Now()
	url, ok := r.verifier.Verify(ctx, candidates)
	res.VerifyDuration = time.Since(start)
	if ok {
		fmt.Fprintf(r.out, "Fetching %s took %.2f seconds\n", url, res.VerifyDuration.Seconds())
		res.URL = url
		res.Status = types.StatusMatched
	}
	return res
}
