package store

import (
	"strings"
)

// RunFilter narrows ListRuns. Empty fields match everything.
type RunFilter struct {
	ID       string
	Features string
	Day      string
	Task     string
	Kind     RunKind
	Hash     string

	// Limit caps the number of rows; 0 means no limit.
	Limit int
}

// compile builds a parameterized SELECT over runs.
// Every query ends with ORDER BY seq ASC, id ASC COLLATE BINARY.
func (f RunFilter) compile() (string, []any) {
	var conds []string
	var params []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		conds = append(conds, column+" = ?")
		params = append(params, value)
	}
	add("id", f.ID)
	add("features", f.Features)
	add("day", f.Day)
	add("task", f.Task)
	add("kind", string(f.Kind))
	add("hash", f.Hash)

	var b strings.Builder
	b.WriteString("SELECT seq, id, hash, kind, features, day, task, options, shape, figure, elapsed_ms FROM runs")
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY seq ASC, id ASC COLLATE BINARY")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, f.Limit)
	}
	return b.String(), params
}

const trialColumns = "SELECT day, trial, task, sample, distractor, choice, features FROM trials"

// trialQuery selects the trials of the given days, or all trials when days
// is empty, ordered by day then trial.
func trialQuery(days []int) (string, []any) {
	var b strings.Builder
	b.WriteString(trialColumns)
	params := make([]any, len(days))
	if len(days) > 0 {
		b.WriteString(" WHERE day IN (")
		for i, d := range days {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("?")
			params[i] = d
		}
		b.WriteString(")")
	}
	b.WriteString(" ORDER BY day ASC, trial ASC")
	return b.String(), params
}
