package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/crosstemp/internal/analysis"
	"github.com/roach88/crosstemp/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	Features string
	Day      string
	Task     string
	Kind     string
	Limit    int
}

// RunSummary is one line of the runs listing.
type RunSummary struct {
	Seq       int64  `json:"seq"`
	ID        string `json:"id"`
	Hash      string `json:"hash"`
	Kind      string `json:"kind"`
	Features  string `json:"features"`
	Day       string `json:"day"`
	Task      string `json:"task"`
	Shape     []int  `json:"shape"`
	Figure    string `json:"figure,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// RunList is the runs command output.
type RunList struct {
	Runs []RunSummary `json:"runs"`
}

func (l RunList) String() string {
	if len(l.Runs) == 0 {
		return "No runs found"
	}
	var b strings.Builder
	for i, r := range l.Runs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%d] %s %-14s %s %s %s  %s", r.Seq, truncateID(r.ID), r.Kind,
			r.Features, r.Day, r.Task, analysis.FormatElapsed(time.Duration(r.ElapsedMS)*time.Millisecond))
	}
	return b.String()
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Long: `List stored runs in the order they were written.

Examples:
  crosstemp runs --db ./rec.db
  crosstemp runs --db ./rec.db --features sample --kind time_resolved --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Features, "features", "", "only runs decoding these features")
	cmd.Flags().StringVar(&opts.Day, "day", "", "only runs for this day")
	cmd.Flags().StringVar(&opts.Task, "task", "", "only runs for this task")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only runs of this kind (cross_temporal|time_resolved)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of runs (0 for all)")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	switch store.RunKind(opts.Kind) {
	case "", store.KindCrossTemporal, store.KindTimeResolved:
	default:
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid --kind",
			fmt.Errorf("%q is not one of %s, %s", opts.Kind, store.KindCrossTemporal, store.KindTimeResolved))
	}

	st, err := openExisting(opts.Database, formatter)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	runs, err := st.ListRuns(commandContext(cmd), store.RunFilter{
		Features: opts.Features,
		Day:      opts.Day,
		Task:     opts.Task,
		Kind:     store.RunKind(opts.Kind),
		Limit:    opts.Limit,
	})
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, "list runs", err)
	}

	list := RunList{Runs: make([]RunSummary, len(runs))}
	for i, r := range runs {
		list.Runs[i] = RunSummary{
			Seq:       r.Seq,
			ID:        r.ID,
			Hash:      r.Hash,
			Kind:      string(r.Kind),
			Features:  r.Features,
			Day:       r.Day,
			Task:      r.Task,
			Shape:     r.Shape,
			Figure:    r.Figure,
			ElapsedMS: r.Elapsed.Milliseconds(),
		}
	}
	return formatter.Success(list)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// formatOptions formats an options map with sorted keys.
func formatOptions(opts map[string]any) string {
	if len(opts) == 0 {
		return "{}"
	}
	keys := sortedKeys(opts)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%s", k, formatValue(opts[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// formatValue formats a single value, handling nested structures deterministically.
func formatValue(v any) string {
	switch val := v.(type) {
	case map[string]any:
		return formatOptions(val)
	case []any:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = formatValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case string:
		return val
	default:
		return fmt.Sprintf("%v", v)
	}
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
