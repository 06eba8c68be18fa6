// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the site-resolver pipeline:
// the institution table, per-row resolutions, and stage configuration.
package types

// Column headers recognized in the input and written to the output.
const (
	ColumnRegionalOffice = "Regional Office"
	ColumnName           = "NBFC Name"
	ColumnAddress        = "Address"
	ColumnEmail          = "Email ID"
	ColumnWebsite        = "Official Website"
)

// RequiredColumns lists the input columns that must be present before a run starts.
var RequiredColumns = []string{ColumnRegionalOffice, ColumnName, ColumnAddress, ColumnEmail}

// Row is one institution record plus its derived website field.
type Row struct {
	RegionalOffice string `json:"regional_office" yaml:"regional_office"`
	Name           string `json:"name" yaml:"name"`
	Address        string `json:"address" yaml:"address"`
	Email          string `json:"email" yaml:"email"`

	// Values holds every input cell in Table.Columns order so that columns
	// the pipeline does not know about survive the round trip.
	Values []string `json:"-" yaml:"-"`

	// Cells parallels Values with the typed form of workbook cells. It is
	// nil for CSV input.
	Cells []Cell `json:"-" yaml:"-"`

	// Website is the official URL, or nil when no candidate qualified.
	Website *string `json:"website" yaml:"website"`

	// Status records whether the row has been resolved in the current run.
	Status ResolutionStatus `json:"status" yaml:"status"`
}

// Reset clears the derived field ahead of a run.
func (r *Row) Reset() {
	r.Website = nil
	r.Status = StatusPending
}

// Apply stores a resolution outcome on the row.
func (r *Row) Apply(res Resolution) {
	r.Status = res.Status
	if res.Status == StatusMatched {
		url := res.URL
		r.Website = &url
		return
	}
	r.Website = nil
}

// WebsiteValue returns the website cell text; empty means no match.
func (r Row) WebsiteValue() string {
	if r.Website == nil {
		return ""
	}
	return *r.Website
}

// Cell is the typed form of an input workbook cell. Only numeric cells carry
// anything; text cells are written back from Row.Values.
type Cell struct {
	Numeric bool
	Number  float64

	// NumFmt is the built-in number format id; CustomNumFmt wins when set.
	NumFmt       int
	CustomNumFmt string
}

// Table is the ordered collection of rows for one run.
type Table struct {
	// Columns lists the input headers in order, excluding ColumnWebsite.
	Columns []string
	Rows    []Row
}

// ColumnIndex returns the position of name in Columns, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// MissingColumns returns the required columns absent from the table, in
// RequiredColumns order.
func (t *Table) MissingColumns() []string {
	var missing []string
	for _, c := range RequiredColumns {
		if t.ColumnIndex(c) < 0 {
			missing = append(missing, c)
		}
	}
	return missing
}

// Header returns the output header: the input columns followed by ColumnWebsite.
func (t *Table) Header() []string {
	h := make([]string, 0, len(t.Columns)+1)
	h = append(h, t.Columns...)
	return append(h, ColumnWebsite)
}

// Record returns the output cells for row i, aligned with Header.
func (t *Table) Record(i int) []string {
	row := t.Rows[i]
	rec := make([]string, len(t.Columns)+1)
	copy(rec, row.Values)
	rec[len(t.Columns)] = row.WebsiteValue()
	return rec
}
