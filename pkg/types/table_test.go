// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    []string
	}{
		{"all present", []string{"Regional Office", "NBFC Name", "Address", "Email ID"}, nil},
		{"extra columns ignored", []string{"S.No", "Regional Office", "NBFC Name", "Address", "Email ID", "Phone"}, nil},
		{"email missing", []string{"Regional Office", "NBFC Name", "Address"}, []string{"Email ID"}},
		{"required order kept", []string{"Address"}, []string{"Regional Office", "NBFC Name", "Email ID"}},
		{"case sensitive", []string{"regional office", "NBFC Name", "Address", "Email ID"}, []string{"Regional Office"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := &Table{Columns: tt.columns}
			assert.Equal(t, tt.want, tbl.MissingColumns())
		})
	}
}

func TestTableRecord(t *testing.T) {
	site := "https://acme.example"
	tbl := &Table{
		Columns: []string{"NBFC Name", "Address"},
		Rows: []Row{
			{Name: "Acme", Values: []string{"Acme", "Mumbai"}, Website: &site, Status: StatusMatched},
			{Name: "Beta", Values: []string{"Beta"}, Status: StatusUnmatched},
		},
	}

	assert.Equal(t, []string{"NBFC Name", "Address", "Official Website"}, tbl.Header())
	assert.Equal(t, []string{"Acme", "Mumbai", "https://acme.example"}, tbl.Record(0))
	assert.Equal(t, []string{"Beta", "", ""}, tbl.Record(1), "short rows are padded")
}

func TestRowApply(t *testing.T) {
	var r Row
	r.Apply(Resolution{Status: StatusMatched, URL: "https://a.example"})
	if assert.NotNil(t, r.Website) {
		assert.Equal(t, "https://a.example", *r.Website)
	}
	assert.Equal(t, StatusMatched, r.Status)

	r.Apply(Resolution{Status: StatusUnmatched, URL: "ignored"})
	assert.Nil(t, r.Website)
	assert.Equal(t, StatusUnmatched, r.Status)

	r.Reset()
	assert.Nil(t, r.Website)
	assert.Equal(t, StatusPending, r.Status)
}

func TestRunSummary(t *testing.T) {
	s := RunSummary{Processed: 3, Matched: 1, Unmatched: 2}
	assert.Equal(t, 3, s.Total())
	assert.False(t, s.HasSaveFailures())

	s.SaveFailures = 1
	assert.True(t, s.HasSaveFailures())
}
