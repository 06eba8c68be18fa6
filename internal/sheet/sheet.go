// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sheet loads the institution table from a spreadsheet and writes it
// back with the derived Official Website column. Excel workbooks (.xlsx,
// .xlsm) and CSV files are supported; the format follows the file extension.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/site-resolver/pkg/types"
)

type format int

const (
	formatUnknown format = iota
	formatXLSX
	formatCSV
)

func detectFormat(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return formatXLSX
	case ".csv":
		return formatCSV
	default:
		return formatUnknown
	}
}

// Load reads the spreadsheet at path into a Table. sheetName selects the
// worksheet of a workbook; empty selects the first one and it is ignored for
// CSV. Any failure is returned as a *ReadError.
func Load(path, sheetName string) (*types.Table, error) {
	var (
		records [][]string
		cells   [][]types.Cell
		err     error
	)
	switch detectFormat(path) {
	case formatXLSX:
		records, cells, err = readXLSX(path, sheetName)
	case formatCSV:
		records, err = readCSV(path)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	t, err := buildTable(records, cells)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return t, nil
}

// Validate checks that every required column is present.
func Validate(t *types.Table) error {
	if missing := t.MissingColumns(); len(missing) > 0 {
		return &SchemaError{Missing: missing, Required: types.RequiredColumns}
	}
	return nil
}

// Save writes the whole table to path, replacing any existing file. The data
// goes to a temporary file in the same directory that is renamed into place,
// so an interrupted save never leaves a truncated output. Failures are
// returned as a *WriteError.
func Save(path, sheetName string, t *types.Table) error {
	f := detectFormat(path)
	if f == formatUnknown {
		return &WriteError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("creating directory %s: %w", dir, err)}
	}

	tmp, err := os.CreateTemp(dir, ".sheet-*.tmp")
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("creating temp file: %w", err)}
	}
	tmpPath := tmp.Name()

	var writeErr error
	if f == formatXLSX {
		writeErr = writeXLSX(tmp, sheetName, t)
	} else {
		writeErr = writeCSV(tmp, outputRecords(t))
	}
	chmodErr := tmp.Chmod(0o644)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, chmodErr, closeErr); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: fmt.Errorf("renaming temp file: %w", err)}
	}
	return nil
}

// Writer saves tables to a fixed destination.
type Writer struct {
	Path  string
	Sheet string
}

// Save writes t to the writer's destination.
func (w Writer) Save(t *types.Table) error {
	return Save(w.Path, w.Sheet, t)
}

// outputRecords returns the header followed by every output row.
func outputRecords(t *types.Table) [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header())
	for i := range t.Rows {
		out = append(out, t.Record(i))
	}
	return out
}

// buildTable turns raw records (header first) into a Table. cells, when not
// nil, holds the typed form of each record cell. Every existing Official
// Website column is dropped; each run derives it afresh.
func buildTable(records [][]string, cells [][]types.Cell) (*types.Table, error) {
	if len(records) == 0 || isBlank(records[0]) {
		return nil, errors.New("no header row")
	}

	header := records[0]
	dropped := make(map[int]bool)
	t := &types.Table{}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if h == types.ColumnWebsite {
			dropped[i] = true
			continue
		}
		t.Columns = append(t.Columns, h)
	}

	office := t.ColumnIndex(types.ColumnRegionalOffice)
	name := t.ColumnIndex(types.ColumnName)
	address := t.ColumnIndex(types.ColumnAddress)
	email := t.ColumnIndex(types.ColumnEmail)

	for r, rec := range records[1:] {
		values := make([]string, 0, len(t.Columns))
		for i, cell := range rec {
			if dropped[i] {
				continue
			}
			values = append(values, cell)
		}
		values = fit(values, len(t.Columns))

		var typed []types.Cell
		if cells != nil && r+1 < len(cells) {
			typed = make([]types.Cell, 0, len(t.Columns))
			for i, cell := range cells[r+1] {
				if dropped[i] {
					continue
				}
				typed = append(typed, cell)
			}
			typed = fit(typed, len(t.Columns))
		}

		t.Rows = append(t.Rows, types.Row{
			RegionalOffice: cellAt(values, office),
			Name:           cellAt(values, name),
			Address:        cellAt(values, address),
			Email:          cellAt(values, email),
			Values:         values,
			Cells:          typed,
		})
	}
	return t, nil
}

// fit truncates or zero-pads s to length n.
func fit[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return append(s, make([]T, n-len(s))...)
}

func cellAt(values []string, idx int) string {
	if idx < 0 || idx >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[idx])
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
