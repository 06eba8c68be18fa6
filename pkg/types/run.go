// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RunStatus is the terminal state of a batch run.
type RunStatus string

const (
	RunRunning     RunStatus = "running"
	RunCompleted   RunStatus = "completed"
	RunInterrupted RunStatus = "interrupted"
	RunFailed      RunStatus = "failed"
)

// RunSummary counts what a batch run did.
type RunSummary struct {
	Processed    int `json:"processed" yaml:"processed"`
	Matched      int `json:"matched" yaml:"matched"`
	Unmatched    int `json:"unmatched" yaml:"unmatched"`
	Saves        int `json:"saves" yaml:"saves"`
	SaveFailures int `json:"save_failures" yaml:"save_failures"`
}

// Total returns the number of rows that reached a terminal state.
func (s RunSummary) Total() int {
	return s.Matched + s.Unmatched
}

// HasSaveFailures reports whether any save failed.
func (s RunSummary) HasSaveFailures() bool {
	return s.SaveFailures > 0
}
