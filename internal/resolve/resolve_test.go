// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/site-resolver/internal/discover"
	"github.com/pdiddy/site-resolver/internal/verify"
	"github.com/pdiddy/site-resolver/pkg/types"
)

type fakeDiscoverer struct {
	candidates []string
	err        error
	queries    []string
}

func (f *fakeDiscoverer) Name() string { return "fake" }

func (f *fakeDiscoverer) Discover(_ context.Context, query string) ([]string, error) {
	f.queries = append(f.queries, query)
	return f.candidates, f.err
}

type fakeVerifier struct {
	match string
	calls [][]string
}

func (f *fakeVerifier) Verify(_ context.Context, candidates []string) (string, bool) {
	f.calls = append(f.calls, candidates)
	for _, c := range candidates {
		if c == f.match {
			return c, true
		}
	}
	return "", false
}

func TestResolve_Matched(t *testing.T) {
	d := &fakeDiscoverer{candidates: []string{"https://news.example/acme", "https://acme.example/"}}
	v := &fakeVerifier{match: "https://acme.example/"}
	var out bytes.Buffer

	res := New(d, v, "", &out, nil).Resolve(context.Background(), "Acme Finance")

	assert.Equal(t, types.StatusMatched, res.Status)
	assert.Equal(t, "https://acme.example/", res.URL)
	assert.Equal(t, "Acme Finance official website", res.Query)
	assert.Equal(t, d.candidates, res.Candidates)
	assert.Equal(t, []string{"Acme Finance official website"}, d.queries)
	assert.Contains(t, out.String(), "Search took ")
	assert.Contains(t, out.String(), "Fetching https://acme.example/ took ")
}

func TestResolve_Unmatched(t *testing.T) {
	d := &fakeDiscoverer{candidates: []string{"https://a.example"}}
	v := &fakeVerifier{}
	var out bytes.Buffer

	res := New(d, v, "{name} homepage", &out, nil).Resolve(context.Background(), "Beta Credit")

	assert.Equal(t, types.StatusUnmatched, res.Status)
	assert.Empty(t, res.URL)
	assert.False(t, res.Matched())
	assert.Equal(t, "Beta Credit homepage", res.Query)
	assert.NotContains(t, out.String(), "Fetching")
}

func TestResolve_DiscoveryErrorIsAbsorbed(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := &fakeDiscoverer{err: errors.New("HTTP 429")}
	v := &fakeVerifier{}

	res := New(d, v, "", nil, zap.New(core)).Resolve(context.Background(), "Acme")

	assert.Equal(t, types.StatusUnmatched, res.Status)
	assert.Equal(t, "HTTP 429", res.SearchError)
	assert.Empty(t, v.calls, "verification is skipped when discovery fails")
	require.Equal(t, 1, logs.FilterMessage("discovery failed").Len())
}

func TestResolve_BlankNameMakesNoCalls(t *testing.T) {
	for _, name := range []string{"", "   ", "\t"} {
		d := &fakeDiscoverer{}
		v := &fakeVerifier{}
		res := New(d, v, "", nil, nil).Resolve(context.Background(), name)

		assert.Equal(t, types.StatusUnmatched, res.Status)
		assert.Empty(t, d.queries)
		assert.Empty(t, v.calls)
	}
}

func TestResolve_EmptyCandidates(t *testing.T) {
	d := &fakeDiscoverer{}
	v := &fakeVerifier{match: "x"}
	res := New(d, v, "", nil, nil).Resolve(context.Background(), "Gamma")
	assert.Equal(t, types.StatusUnmatched, res.Status)
}

// End to end through a real search page and real candidate servers.
func TestResolve_SearchPageAndTitleVerifier(t *testing.T) {
	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><head><title>Acme Finance reviews</title></head></html>")
	}))
	defer news.Close()
	official := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><head><title>Acme Finance — Official Company Site</title></head></html>")
	}))
	defer official.Close()

	serp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Acme Finance official website", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body>
			<a href="/url?q=%[1]s/ignored">wrapped</a>
			<a href="%[1]s/news?id=7">news</a>
			<a href="%[2]s/?utm=x">official</a>
		</body></html>`, news.URL, official.URL)
	}))
	defer serp.Close()

	d := discover.NewSearchPage(types.SearchConfig{Endpoint: serp.URL})
	v := verify.New(types.VerifyConfig{HTTPConfig: types.HTTPConfig{Timeout: 2 * time.Second}}, nil)

	res := New(d, v, "", nil, nil).Resolve(context.Background(), "Acme Finance")

	require.Equal(t, types.StatusMatched, res.Status)
	assert.Equal(t, official.URL+"/", res.URL)
	assert.Equal(t, []string{news.URL + "/news", official.URL + "/"}, res.Candidates)
}

func TestResultFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acme.yaml")
	res := types.Resolution{
		Query:          "Acme official website",
		Candidates:     []string{"https://acme.example/"},
		URL:            "https://acme.example/",
		Status:         types.StatusMatched,
		SearchDuration: 1500 * time.Millisecond,
	}

	require.NoError(t, WriteResultFile(path, "Acme", "search_page", res))
	rf, err := ReadResultFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Acme", rf.Name)
	assert.Equal(t, "search_page", rf.Backend)
	assert.Equal(t, res, rf.Resolution)
	assert.False(t, rf.Timestamp.IsZero())
}

func TestReadResultFile_Errors(t *testing.T) {
	_, err := ReadResultFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading result file")
}
