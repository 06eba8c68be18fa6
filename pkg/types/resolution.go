// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ResolutionStatus is the terminal state of resolving one row.
type ResolutionStatus string

const (
	StatusPending   ResolutionStatus = ""
	StatusMatched   ResolutionStatus = "matched"
	StatusUnmatched ResolutionStatus = "unmatched"
)

// Resolution is the outcome of resolving a single institution name.
type Resolution struct {
	// Query is the search text sent to the discovery backend.
	Query string `json:"query" yaml:"query"`

	// Candidates lists the URLs discovered for the query, in page order.
	Candidates []string `json:"candidates" yaml:"candidates"`

	// URL is the chosen official website; empty unless Status is StatusMatched.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	Status ResolutionStatus `json:"status" yaml:"status"`

	// SearchDuration is the time spent on candidate discovery.
	SearchDuration time.Duration `json:"search_duration" yaml:"search_duration"`

	// VerifyDuration is the time spent probing candidates.
	VerifyDuration time.Duration `json:"verify_duration" yaml:"verify_duration"`

	// SearchError holds the discovery failure, if any.
	SearchError string `json:"search_error,omitempty" yaml:"search_error,omitempty"`
}

// Matched reports whether an official website was found.
func (r Resolution) Matched() bool {
	return r.Status == StatusMatched
}
