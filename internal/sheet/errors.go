// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is wrapped by ReadError and WriteError when the file
// extension is neither .xlsx/.xlsm nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ReadError reports an input file that is missing, corrupt, or unusable.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("reading %s: %v", e.Path, e.Err) }

func (e *ReadError) Unwrap() error { return e.Err }

// SchemaError reports required columns absent from the input header.
type SchemaError struct {
	Missing  []string
	Required []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input is missing column(s) %s; the input file must contain the columns: %s",
		quoteAll(e.Missing), quoteAll(e.Required))
}

// WriteError reports an output file that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("writing %s: %v", e.Path, e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }

func quoteAll(cols []string) string {
	q := make([]string, len(cols))
	for i, c := range cols {
		q[i] = fmt.Sprintf("%q", c)
	}
	return strings.Join(q, ", ")
}
