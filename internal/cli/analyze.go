package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/roach88/crosstemp/internal/analysis"
	"github.com/roach88/crosstemp/internal/dataset"
	"github.com/roach88/crosstemp/internal/options"
	"github.com/roach88/crosstemp/internal/store"
)

// AnalyzeOptions holds flags for the decode and score commands.
type AnalyzeOptions struct {
	*RootOptions
	Database string
	Config   string
	Out      string
	NoFigure bool

	// Overrides for the corresponding option fields; applied only when
	// the flag is set.
	Jobs       int
	Confidence float64
	Boots      int
	Shuffles   int
}

// AnalysisOutput is the result of a decode or score command.
type AnalysisOutput struct {
	RunID     string      `json:"run_id"`
	Hash      string      `json:"hash"`
	Kind      string      `json:"kind"`
	Shape     []int       `json:"shape"`
	Elapsed   string      `json:"elapsed"`
	ElapsedMS int64       `json:"elapsed_ms"`
	Figure    string      `json:"figure,omitempty"`
	Times     []float64   `json:"times"`
	Diagonal  []float64   `json:"diagonal"`
	CI        [][]float64 `json:"ci,omitempty"`
	NullCI    [][]float64 `json:"null_ci,omitempty"`
}

// String renders the console report: shape line, timing line, peak score,
// figure path and run ID.
func (o AnalysisOutput) String() string {
	var b strings.Builder
	fmt.Fprintln(&b, analysis.ShapeLine(o.Shape))
	fmt.Fprintf(&b, "--- %s ---\n", o.Elapsed)
	if len(o.Diagonal) > 0 && len(o.Times) == len(o.Diagonal) {
		i := floats.MaxIdx(o.Diagonal)
		fmt.Fprintf(&b, "peak %.4f at %.2f s\n", o.Diagonal[i], o.Times[i])
	}
	if o.Figure != "" {
		fmt.Fprintf(&b, "figure: %s\n", o.Figure)
	}
	fmt.Fprintf(&b, "run: %s", o.RunID)
	return b.String()
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decode <features> <day> <task>",
		Short: "Compute the cross-temporal generalization matrix",
		Long: `Train a classifier at every time bin and test it at every bin.

features selects the label (sample, distractor or choice), day is
"first", "last", "all" or a day number, and task is a task name or
"all". Scores are cross-validated and averaged across folds; the
matrix is saved as a run and drawn as a heat map.

Examples:
  crosstemp decode --db ./rec.db sample first DPA
  crosstemp decode --db ./rec.db --config ./opts.cue --jobs 4 choice last all`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(opts, analysis.KindCrossTemporal, args, cmd)
		},
	}

	addAnalysisFlags(cmd, opts)
	return cmd
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "score <features> <day> <task>",
		Short: "Compute the time-resolved score with confidence bands",
		Long: `Train and test a classifier at each time bin separately.

The score is repeated on stratified bootstrap resamples (--boots) and
on label permutations (--shuffles); each repeat set gets percentile
confidence margins at --confidence.

Examples:
  crosstemp score --db ./rec.db --boots 200 sample first DPA
  crosstemp score --db ./rec.db --boots 100 --shuffles 100 --format json sample all all`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(opts, analysis.KindTimeResolved, args, cmd)
		},
	}

	addAnalysisFlags(cmd, opts)
	cmd.Flags().IntVar(&opts.Boots, "boots", 0, "bootstrap repeats (overrides n_boots)")
	cmd.Flags().IntVar(&opts.Shuffles, "shuffles", 0, "label permutation repeats (overrides n_shuffles)")
	return cmd
}

func addAnalysisFlags(cmd *cobra.Command, opts *AnalyzeOptions) {
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Config, "config", "", "CUE options file")
	cmd.Flags().StringVar(&opts.Out, "out", "figures", "figure directory")
	cmd.Flags().BoolVar(&opts.NoFigure, "no-figure", false, "skip drawing the figure")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 0, "concurrent folds (overrides n_jobs; <=0 uses all CPUs)")
	cmd.Flags().Float64Var(&opts.Confidence, "confidence", 0, "confidence level in (0, 1) (overrides confidence)")
}

func runAnalysis(opts *AnalyzeOptions, kind analysis.Kind, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	decOpts, err := options.Load(opts.Config, overridesFor(cmd, opts, args))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, "load options", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeInvalidOptions, "load options", err)
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

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	rec, err := readDays(ctx, st, decOpts.Day)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNoRecording):
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, "read recording", err)
		case errors.Is(err, dataset.ErrUnknownDay), errors.Is(err, dataset.ErrEmptyRecording):
			return formatter.Fail(ExitCommandError, ErrCodeSelection, "read recording", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeStore, "read recording", err)
	}
	slog.Debug("recording loaded", "name", rec.Name, "trials", len(rec.Trials), "neurons", rec.Neurons, "bins", rec.Bins)

	an := &analysis.Analyzer{Clock: opts.Clock, Logger: slog.Default()}
	var res *analysis.Result
	if kind == analysis.KindTimeResolved {
		res, err = an.TimeResolved(ctx, rec, decOpts)
	} else {
		res, err = an.CrossTemporal(ctx, rec, decOpts)
	}
	if err != nil {
		exit, code := classifyAnalysisError(err)
		return formatter.Fail(exit, code, "analysis", err)
	}

	var figurePath string
	if !opts.NoFigure {
		fig, err := res.Figure()
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeGeneric, "draw figure", err)
		}
		figurePath, err = fig.Save(opts.Out, res.FigureName(), decOpts.Plot.Ext)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeGeneric, "save figure", err)
		}
		slog.Info("figure saved", "path", figurePath)
	}

	id := opts.ids().Generate()
	inserted, err := st.WriteRun(ctx, res.Run(id, figurePath))
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, "write run", err)
	}
	if !inserted {
		slog.Warn("run already stored", "id", id)
	}

	return formatter.Success(AnalysisOutput{
		RunID:     id,
		Hash:      res.Hash,
		Kind:      string(res.Kind),
		Shape:     res.Shape,
		Elapsed:   analysis.FormatElapsed(res.Elapsed),
		ElapsedMS: res.Elapsed.Milliseconds(),
		Figure:    figurePath,
		Times:     res.Times,
		Diagonal:  res.Diagonal(),
		CI:        matrixRows(res.CI),
		NullCI:    matrixRows(res.NullCI),
	})
}

// readDays loads only the trials of the days that day resolves to.
// Baseline statistics are pooled per day, so dropping other days leaves
// the analysis unchanged.
func readDays(ctx context.Context, st *store.Store, day string) (*dataset.Recording, error) {
	days, err := st.Days(ctx)
	if err != nil {
		return nil, err
	}
	selected, err := dataset.ResolveDays(days, day)
	if err != nil {
		return nil, err
	}
	return st.ReadRecording(ctx, selected...)
}

// openExisting opens the database for a read path. A missing file is a
// not-found error and is never created.
func openExisting(path string, formatter *OutputFormatter) (*store.Store, error) {
	st, err := store.OpenExisting(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, formatter.Fail(ExitCommandError, ErrCodeNotFound, "open database", err)
	}
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeStore, "open database", err)
	}
	return st, nil
}

// overridesFor injects the positional identifiers and any flag that was
// explicitly set. The schema validates them like file values.
func overridesFor(cmd *cobra.Command, opts *AnalyzeOptions, args []string) options.Overrides {
	ov := options.Overrides{
		"features": args[0],
		"day":      args[1],
		"task":     args[2],
	}
	flags := cmd.Flags()
	if flags.Changed("jobs") {
		ov["n_jobs"] = opts.Jobs
	}
	if flags.Changed("confidence") {
		ov["confidence"] = opts.Confidence
	}
	if flags.Lookup("boots") != nil && flags.Changed("boots") {
		ov["n_boots"] = opts.Boots
	}
	if flags.Lookup("shuffles") != nil && flags.Changed("shuffles") {
		ov["n_shuffles"] = opts.Shuffles
	}
	return ov
}

func classifyAnalysisError(err error) (exit int, code string) {
	switch {
	case errors.Is(err, dataset.ErrUnknownDay),
		errors.Is(err, dataset.ErrUnknownFeatures),
		errors.Is(err, dataset.ErrSingleClass),
		errors.Is(err, dataset.ErrEmptyRecording):
		return ExitCommandError, ErrCodeSelection
	case errors.Is(err, context.Canceled):
		return ExitFailure, ErrCodeGeneric
	default:
		return ExitFailure, ErrCodeDecode
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// matrixRows copies m into row slices; nil for a nil matrix.
func matrixRows(m *mat.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}
