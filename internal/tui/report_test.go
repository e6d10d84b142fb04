package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/dsf/internal/reconcile"
)

func TestReportTable_Connections(t *testing.T) {
	r := &reconcile.Report{Results: []reconcile.SlotResult{
		{Key: "cr8a3_sql", Connector: "shared_sql", Outcome: reconcile.OutcomeMatched, Value: "sql1"},
		{Key: "cr8a3_teams", Connector: "shared_teams", Outcome: reconcile.OutcomeNoConnection, Value: "None found"},
	}}

	headers, rows := ReportTable(r)
	assert.Equal(t, []string{"SLOT", "CONNECTOR", "OUTCOME", "VALUE"}, headers)
	assert.Equal(t, [][]string{
		{"cr8a3_sql", "shared_sql", "✓ matched", "sql1"},
		{"cr8a3_teams", "shared_teams", "⚠ no_connection", "None found"},
	}, rows)
}

func TestReportTable_Variables(t *testing.T) {
	r := &reconcile.Report{Results: []reconcile.SlotResult{
		{Key: "cr8a3_Region", Outcome: reconcile.OutcomeUnmatched},
	}}

	headers, rows := ReportTable(r)
	assert.Equal(t, []string{"SLOT", "OUTCOME", "VALUE"}, headers)
	assert.Equal(t, [][]string{{"cr8a3_Region", "○ unmatched", ""}}, rows)
}

func TestReportSummary(t *testing.T) {
	tests := []struct {
		name   string
		report reconcile.Report
		want   string
	}{
		{
			name:   "empty",
			report: reconcile.Report{},
			want:   "0 slots: nothing to fill",
		},
		{
			name: "mixed",
			report: reconcile.Report{Results: []reconcile.SlotResult{
				{Outcome: reconcile.OutcomeMatched},
				{Outcome: reconcile.OutcomeMatched},
				{Outcome: reconcile.OutcomeUnmatched},
			}},
			want: "3 slots: 2 matched, 1 unmatched",
		},
		{
			name: "aborted",
			report: reconcile.Report{Aborted: true, Results: []reconcile.SlotResult{
				{Outcome: reconcile.OutcomeSkipped},
			}},
			want: "1 slot: 1 skipped (aborted)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ReportSummary(&tc.report))
		})
	}
}

func TestOutcomeIcon(t *testing.T) {
	assert.Equal(t, "✓", OutcomeIcon(reconcile.OutcomeMatched))
	assert.Equal(t, "⚠", OutcomeIcon(reconcile.OutcomeNoConnection))
	assert.Equal(t, "⊘", OutcomeIcon(reconcile.OutcomeSkipped))
	assert.Equal(t, "○", OutcomeIcon(reconcile.OutcomeUnmatched))
}
