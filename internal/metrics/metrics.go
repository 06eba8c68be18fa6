// Package metrics records Prometheus collectors for a resolver run and
// writes them out in the text exposition format.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdiddy/site-resolver/pkg/types"
)

// Recorder owns a private registry so that independent runs and tests do
// not share counters. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	rowsTotal             *prometheus.CounterVec
	searchDurationSeconds prometheus.Histogram
	verifyDurationSeconds prometheus.Histogram
	candidatesPerRow      prometheus.Histogram
	searchErrorsTotal     prometheus.Counter
	savesTotal            *prometheus.CounterVec
}

// New registers the resolver collectors on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		rowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "site_resolver_rows_total",
				Help: "Total number of rows resolved, labeled by status.",
			},
			[]string{"status"},
		),
		searchDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "site_resolver_search_duration_seconds",
				Help:    "Histogram of candidate discovery latencies.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),
		verifyDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "site_resolver_verify_duration_seconds",
				Help:    "Histogram of time spent probing candidates for one row.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25},
			},
		),
		candidatesPerRow: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "site_resolver_candidates",
				Help:    "Number of candidates discovered per row.",
				Buckets: []float64{0, 1, 2, 3, 4, 5},
			},
		),
		searchErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "site_resolver_search_errors_total",
				Help: "Total number of failed discovery requests.",
			},
		),
		savesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "site_resolver_saves_total",
				Help: "Total number of output saves, labeled by result.",
			},
			[]string{"result"},
		),
	}
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveResolution records one resolved row.
func (r *Recorder) ObserveResolution(res types.Resolution) {
	if r == nil {
		return
	}
	r.rowsTotal.WithLabelValues(string(res.Status)).Inc()
	if res.Query == "" {
		return
	}
	r.searchDurationSeconds.Observe(res.SearchDuration.Seconds())
	if res.SearchError != "" {
		r.searchErrorsTotal.Inc()
		return
	}
	r.candidatesPerRow.Observe(float64(len(res.Candidates)))
	r.verifyDurationSeconds.Observe(res.VerifyDuration.Seconds())
}

// ObserveSave records the outcome of one save.
func (r *Recorder) ObserveSave(err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.savesTotal.WithLabelValues(result).Inc()
}

// WriteTextfile writes every collected metric to path, replacing the file
// atomically. It is meant for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return errors.New("metrics recorder is not initialized")
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
