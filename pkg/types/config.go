// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// RunConfig holds settings for the batch run over the input spreadsheet.
type RunConfig struct {
	// InputPath is the spreadsheet to read (.xlsx or .csv).
	InputPath string `json:"input" yaml:"input" mapstructure:"input"`

	// OutputPath is the spreadsheet to write; it is overwritten on every save.
	OutputPath string `json:"output" yaml:"output" mapstructure:"output"`

	// Sheet names the worksheet for .xlsx files. Empty selects the first sheet.
	Sheet string `json:"sheet,omitempty" yaml:"sheet,omitempty" mapstructure:"sheet"`

	// SaveEvery is the number of rows between periodic saves (default 10).
	SaveEvery int `json:"save_every" yaml:"save_every" mapstructure:"save_every"`

	// Delay is the politeness pause between consecutive rows (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// SearchConfig holds settings for candidate discovery.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Endpoint is the search page URL; the query is sent as the q parameter.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// QueryTemplate builds the query; {name} is replaced by the institution name.
	QueryTemplate string `json:"query_template" yaml:"query_template" mapstructure:"query_template"`

	// MaxCandidates caps the number of URLs taken from one result page (default 5).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates" mapstructure:"max_candidates"`

	// RedirectPrefix marks the search engine's own link wrappers, which are skipped.
	RedirectPrefix string `json:"redirect_prefix" yaml:"redirect_prefix" mapstructure:"redirect_prefix"`

	// Cookie is sent with discovery requests when set. Loaded from the secrets directory.
	Cookie string `json:"-" yaml:"-" mapstructure:"-"`
}

// VerifyConfig holds settings for candidate verification.
type VerifyConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Keywords are matched against the lower-cased page title.
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
}

// JournalConfig locates the optional SQLite run journal.
type JournalConfig struct {
	// Path is the database file. Empty disables the journal.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// MetricsConfig controls Prometheus metrics output.
type MetricsConfig struct {
	// Textfile receives the metrics in text exposition format at the end of a run.
	Textfile string `json:"textfile" yaml:"textfile" mapstructure:"textfile"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `json:"level" yaml:"level" mapstructure:"level"`
	Development bool   `json:"development" yaml:"development" mapstructure:"development"`
}

// Config groups all stage configurations.
type Config struct {
	Run     RunConfig     `json:"run" yaml:"run" mapstructure:"run"`
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Verify  VerifyConfig  `json:"verify" yaml:"verify" mapstructure:"verify"`
	Journal JournalConfig `json:"journal" yaml:"journal" mapstructure:"journal"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}
