package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/crosstemp/internal/analysis"
	"github.com/roach88/crosstemp/internal/runid"
	"github.com/roach88/crosstemp/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// ShowOutput is a stored run with its diagonal and margins.
type ShowOutput struct {
	RunSummary
	Options  map[string]any    `json:"options"`
	Matrices map[string][2]int `json:"matrices"`
	Diagonal []float64         `json:"diagonal"`
	CI       [][]float64       `json:"ci,omitempty"`

	verbose bool
}

func (o ShowOutput) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Run %s ===\n", o.ID)
	fmt.Fprintf(&b, "  Kind:    %s\n", o.Kind)
	fmt.Fprintf(&b, "  Target:  %s %s %s\n", o.Features, o.Day, o.Task)
	fmt.Fprintf(&b, "  Shape:   %s\n", analysis.ShapeLine(o.Shape))
	fmt.Fprintf(&b, "  Hash:    %s\n", o.Hash)
	if o.Figure != "" {
		fmt.Fprintf(&b, "  Figure:  %s\n", o.Figure)
	}
	names := make([]string, 0, len(o.Matrices))
	for _, name := range sortedKeys(o.Matrices) {
		dims := o.Matrices[name]
		names = append(names, fmt.Sprintf("%s %dx%d", name, dims[0], dims[1]))
	}
	fmt.Fprintf(&b, "  Matrices: %s\n", strings.Join(names, ", "))
	if o.verbose {
		fmt.Fprintf(&b, "  Options: %s\n", formatOptions(o.Options))
	}

	b.WriteString("\n=== Diagonal ===")
	for i, score := range o.Diagonal {
		fmt.Fprintf(&b, "\n  bin %d: %.4f", i, score)
		if o.CI != nil {
			fmt.Fprintf(&b, " (-%.4f +%.4f)", o.CI[i][0], o.CI[i][1])
		}
	}
	return b.String()
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a stored run",
		Long: `Show a stored run: its target, data shape, matrices and the score
of every bin decoded on itself, with confidence margins when the run
has them. --verbose adds the full option set.

Examples:
  crosstemp show --db ./rec.db 01941f29-7c00-7000-8000-000000000001`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if !runid.Valid(id) {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "run id",
			fmt.Errorf("%q is not a UUID", id))
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

	run, err := st.ReadRun(commandContext(cmd), id)
	if errors.Is(err, store.ErrRunNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "read run", err)
	}
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, "read run", err)
	}

	out := ShowOutput{
		RunSummary: RunSummary{
			Seq:       run.Seq,
			ID:        run.ID,
			Hash:      run.Hash,
			Kind:      string(run.Kind),
			Features:  run.Features,
			Day:       run.Day,
			Task:      run.Task,
			Shape:     run.Shape,
			Figure:    run.Figure,
			ElapsedMS: run.Elapsed.Milliseconds(),
		},
		Options:  run.Options,
		Matrices: make(map[string][2]int, len(run.Matrices)),
		CI:       matrixRows(run.Matrices[store.MatrixCI]),
		verbose:  opts.Verbose,
	}
	for name, m := range run.Matrices {
		r, c := m.Dims()
		out.Matrices[name] = [2]int{r, c}
	}
	if scores := run.Matrices[store.MatrixScores]; scores != nil {
		out.Diagonal = store.Diagonal(run.Kind, scores)
	}

	return formatter.Success(out)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
