// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/site-resolver/pkg/types"
)

// Report is a run together with its recorded rows.
type Report struct {
	Run     RunRecord `json:"run" yaml:"run"`
	Entries []Entry   `json:"entries" yaml:"entries"`
}

// Report loads the run and its entries.
func (j *Journal) Report(ctx context.Context, runID string) (*Report, error) {
	run, err := j.Run(ctx, runID)
	if err != nil {
		return nil, err
	}
	entries, err := j.Entries(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &Report{Run: run, Entries: entries}, nil
}

// WriteYAML encodes the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteJSON encodes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteMarkdown renders the report as a GitHub-flavored Markdown document.
func (r *Report) WriteMarkdown(w io.Writer) error {
	md := markdown.NewMarkdown(w)

	md.H1("Site Resolver Run " + r.Run.ID)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Input", "`" + r.Run.Input + "`"},
			{"Output", "`" + r.Run.Output + "`"},
			{"Started", r.Run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Finished", formatFinished(r.Run.FinishedAt)},
			{"Status", string(r.Run.Status)},
		},
	})
	md.PlainText("")

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Matched", strconv.Itoa(r.Run.Matched)},
			{"Unmatched", strconv.Itoa(r.Run.Unmatched)},
			{"Saves", strconv.Itoa(r.Run.Saves)},
			{"Save failures", strconv.Itoa(r.Run.SaveFailures)},
			{"**Processed**", "**" + strconv.Itoa(r.Run.Processed) + "**"},
		},
	})
	md.PlainText("")

	switch {
	case r.Run.HasSaveFailures():
		md.Warningf("%d save(s) failed during this run; the output may lag behind the journal.",
			r.Run.SaveFailures)
	case r.Run.Status == types.RunInterrupted:
		md.Note("The run was interrupted; rows after the last save are missing from the output.")
	}
	md.PlainText("")

	md.H2("Resolutions")
	md.PlainText("")
	if len(r.Entries) == 0 {
		md.PlainText("No rows were recorded.")
		return md.Build()
	}

	rows := make([][]string, len(r.Entries))
	for i, e := range r.Entries {
		website := e.URL
		if website == "" {
			website = "-"
		}
		rows[i] = []string{
			strconv.Itoa(e.Index + 1),
			e.Name,
			string(e.Status),
			website,
			strconv.Itoa(len(e.Candidates)),
			fmt.Sprintf("%.2f", e.SearchDuration.Seconds()),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Row", "Name", "Status", "Website", "Candidates", "Search (s)"},
		Rows:   rows,
	})

	return md.Build()
}

func formatFinished(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05 MST")
}
