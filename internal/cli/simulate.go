package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/crosstemp/internal/store"
	"github.com/roach88/crosstemp/internal/synth"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Database string
}

// SimulateOutput describes the recording written by simulate.
type SimulateOutput struct {
	synth.Summary
	Hash string `json:"hash"`
}

func (o SimulateOutput) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "recording %s: %d trials, %d neurons, %d bins over %g s",
		o.Name, o.Trials, o.Neurons, o.Bins, o.Duration)
	for _, g := range o.Groups {
		fmt.Fprintf(&b, "\n  day %d %s: %d trials (sample=1: %d, distractor=1: %d, choice=1: %d)",
			g.Day, g.Task, g.Trials, g.Sample1, g.Distractor1, g.Choice1)
	}
	return b.String()
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Generate a synthetic recording",
		Long: `Generate a synthetic recording from a YAML scenario and store it.

The scenario sets the recording layout, the tasks, and the time windows
in which neurons respond selectively to the sample, distractor or
choice. Any recording already in the database is replaced. Generation
is deterministic for a given seed.

Examples:
  crosstemp simulate --db ./rec.db ./scenarios/basic.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSimulate(opts *SimulateOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	scenario, err := synth.LoadScenario(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, "load scenario", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "load scenario", err)
	}

	rec, err := synth.Generate(scenario)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "generate recording", err)
	}
	formatter.VerboseLog("generated %d trials for scenario %s", len(rec.Trials), scenario.Name)

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := commandContext(cmd)
	if err := st.WriteRecording(ctx, rec); err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, "write recording", err)
	}
	info, err := st.RecordingInfo(ctx)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, "read recording", err)
	}
	slog.Info("recording stored", "name", info.Name, "trials", info.Trials, "hash", info.Hash)

	return formatter.Success(SimulateOutput{Summary: synth.Summarize(rec), Hash: info.Hash})
}
