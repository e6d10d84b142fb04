package tui

import (
	"fmt"

	"github.com/mrz1836/dsf/internal/reconcile"
)

// ReportTable turns a reconciliation report into table headers and rows.
// The connector column is included only when some slot has a connector.
func ReportTable(r *reconcile.Report) ([]string, [][]string) {
	withConnector := false
	for _, res := range r.Results {
		if res.Connector != "" {
			withConnector = true
			break
		}
	}

	headers := []string{"SLOT", "OUTCOME", "VALUE"}
	if withConnector {
		headers = []string{"SLOT", "CONNECTOR", "OUTCOME", "VALUE"}
	}

	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		outcome := OutcomeIcon(res.Outcome) + " " + string(res.Outcome)
		if withConnector {
			rows = append(rows, []string{res.Key, res.Connector, outcome, res.Value})
		} else {
			rows = append(rows, []string{res.Key, outcome, res.Value})
		}
	}
	return headers, rows
}

// ReportSummary returns a one-line count of outcomes, e.g.
// "3 slots: 2 matched, 1 unmatched".
func ReportSummary(r *reconcile.Report) string {
	s := fmt.Sprintf("%s: ", plural(len(r.Results), "slot"))
	first := true
	for _, o := range []reconcile.Outcome{
		reconcile.OutcomeMatched,
		reconcile.OutcomeNoConnection,
		reconcile.OutcomeUnmatched,
		reconcile.OutcomeSkipped,
	} {
		n := r.Count(o)
		if n == 0 {
			continue
		}
		if !first {
			s += ", "
		}
		first = false
		s += fmt.Sprintf("%d %s", n, o)
	}
	if first {
		s += "nothing to fill"
	}
	if r.Aborted {
		s += " (aborted)"
	}
	return s
}
