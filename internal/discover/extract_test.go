// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func anchors(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, h := range hrefs {
		fmt.Fprintf(&b, `<a href="%s">link</a>`, h)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func TestExtractCandidates(t *testing.T) {
	tests := []struct {
		name string
		html string
		max  int
		want []string
	}{
		{
			name: "document order with query strings removed",
			html: anchors("https://acme.example/?utm=1", "http://acme-finance.example/about?x=y&z=1"),
			max:  5,
			want: []string{"https://acme.example/", "http://acme-finance.example/about"},
		},
		{
			name: "redirect wrapper links skipped",
			html: anchors("/url?q=https://tracked.example/&sa=U", "https://direct.example/"),
			max:  5,
			want: []string{"https://direct.example/"},
		},
		{
			name: "relative and non-http targets skipped",
			html: anchors("/search?q=acme", "#top", "mailto:info@acme.example", "javascript:void(0)", "ftp://files.example/", "https://ok.example"),
			max:  5,
			want: []string{"https://ok.example"},
		},
		{
			name: "scheme match is case insensitive",
			html: anchors("HTTPS://Upper.example/Path"),
			max:  5,
			want: []string{"HTTPS://Upper.example/Path"},
		},
		{
			name: "duplicates kept",
			html: anchors("https://a.example/?1", "https://a.example/?2"),
			max:  5,
			want: []string{"https://a.example/", "https://a.example/"},
		},
		{
			name: "anchors without href ignored",
			html: `<html><body><a name="x">x</a><a href="https://a.example">a</a></body></html>`,
			max:  5,
			want: []string{"https://a.example"},
		},
		{
			name: "no anchors",
			html: "<html><body><p>captcha</p></body></html>",
			max:  5,
			want: nil,
		},
		{
			name: "custom cap",
			html: anchors("https://1.example", "https://2.example", "https://3.example"),
			max:  2,
			want: []string{"https://1.example", "https://2.example"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCandidates(parse(t, tt.html), tt.max, DefaultRedirectPrefix)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractCandidatesNeverExceedsFive(t *testing.T) {
	hrefs := make([]string, 40)
	for i := range hrefs {
		hrefs[i] = fmt.Sprintf("https://site%d.example/", i)
	}
	doc := parse(t, anchors(hrefs...))

	got := ExtractCandidates(doc, 0, DefaultRedirectPrefix)
	require.Len(t, got, DefaultMaxCandidates)
	assert.Equal(t, "https://site0.example/", got[0])
	assert.Equal(t, "https://site4.example/", got[4])
}

func TestExtractCandidatesNeverIncludesRedirectPrefix(t *testing.T) {
	var hrefs []string
	for i := 0; i < 10; i++ {
		hrefs = append(hrefs, fmt.Sprintf("/url?q=https://wrapped%d.example/", i))
		hrefs = append(hrefs, fmt.Sprintf("https://plain%d.example/", i))
	}
	for _, c := range ExtractCandidates(parse(t, anchors(hrefs...)), 5, DefaultRedirectPrefix) {
		assert.False(t, strings.HasPrefix(c, DefaultRedirectPrefix), "candidate %q", c)
		assert.NotContains(t, c, "wrapped")
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		template string
		input    string
		want     string
	}{
		{"default template", "", "Acme Finance", "Acme Finance official website"},
		{"trims name", "", "  Acme Finance ", "Acme Finance official website"},
		{"custom template", "{name} NBFC homepage", "Beta", "Beta NBFC homepage"},
		{"placeholder twice", "{name} site {name}", "Gamma", "Gamma site Gamma"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.template, tt.input))
		})
	}
}
