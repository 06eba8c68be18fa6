// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover finds candidate website URLs for an institution by
// scraping a search-engine result page.
//
// The result markup belongs to a third party and changes without notice, so
// everything that depends on it sits behind the Discoverer interface; the
// rest of the pipeline only sees an ordered list of candidate URLs.
package discover

import (
	"context"
	"strings"
)

// NamePlaceholder is replaced by the institution name in a query template.
const NamePlaceholder = "{name}"

// DefaultQueryTemplate is used when no template is configured.
const DefaultQueryTemplate = NamePlaceholder + " official website"

// DefaultMaxCandidates caps the candidates taken from one result page.
const DefaultMaxCandidates = 5

// Discoverer returns candidate URLs for a free-text query, in result order.
// Each implementation wraps one search backend.
type Discoverer interface {
	Name() string
	Discover(ctx context.Context, query string) ([]string, error)
}

// BuildQuery fills template with name. An empty template uses
// DefaultQueryTemplate.
func BuildQuery(template, name string) string {
	if template == "" {
		template = DefaultQueryTemplate
	}
	return strings.ReplaceAll(template, NamePlaceholder, strings.TrimSpace(name))
}
