// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/site-resolver/pkg/types"
)

// ResultFile is the on-disk form of a single-name lookup, so a discovery
// can be inspected or compared later without repeating the requests.
type ResultFile struct {
	Name       string           `yaml:"name"`
	Backend    string           `yaml:"backend"`
	Resolution types.Resolution `yaml:"resolution"`
	Timestamp  time.Time        `yaml:"timestamp"`
}

// WriteResultFile saves a lookup to path as YAML.
func WriteResultFile(path, name, backend string, res types.Resolution) error {
	rf := ResultFile{
		Name:       name,
		Backend:    backend,
		Resolution: res,
		Timestamp:  time.Now().UTC(),
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a lookup saved by WriteResultFile.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
