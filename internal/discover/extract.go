// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultRedirectPrefix is the link wrapper Google uses for tracked result links.
const DefaultRedirectPrefix = "/url?q="

// ExtractCandidates walks the anchors of a result page in document order and
// returns up to maxResults absolute http(s) targets with their query strings
// removed. Anchors starting with redirectPrefix are skipped. Duplicates are
// kept.
func ExtractCandidates(doc *goquery.Document, maxResults int, redirectPrefix string) []string {
	if maxResults <= 0 {
		maxResults = DefaultMaxCandidates
	}

	var results []string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)

		if redirectPrefix != "" && strings.HasPrefix(href, redirectPrefix) {
			return true
		}
		if !isAbsoluteHTTP(href) {
			return true
		}

		results = append(results, stripQuery(href))
		return len(results) < maxResults
	})
	return results
}

func isAbsoluteHTTP(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// stripQuery drops everything from the first '?'.
func stripQuery(href string) string {
	if i := strings.IndexByte(href, '?'); i >= 0 {
		return href[:i]
	}
	return href
}
