package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/crosstemp/internal/stats"
)

// CIOptions holds flags for the ci command.
type CIOptions struct {
	*RootOptions
	Confidence float64
}

// CIOutput holds per-position means and margins.
type CIOutput struct {
	Confidence float64     `json:"confidence"`
	Repeats    int         `json:"repeats"`
	Mean       []float64   `json:"mean"`
	CI         [][]float64 `json:"ci"`
}

// String renders one line per position: index, mean, lower and upper margin.
func (o CIOutput) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d repeats, confidence %g\n", o.Repeats, o.Confidence)
	fmt.Fprint(&b, "pos\tmean\tlower\tupper")
	for i, m := range o.Mean {
		fmt.Fprintf(&b, "\n%d\t%.4f\t%.4f\t%.4f", i, m, o.CI[i][0], o.CI[i][1])
	}
	return b.String()
}

// NewCICommand creates the ci command.
func NewCICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ci <scores-file>",
		Short: "Compute confidence margins of repeated scores",
		Long: `Compute two-sided percentile confidence margins around the mean of
every column of a score matrix.

The file holds R rows of T scores as a YAML or JSON list of lists, one
row per repeated measurement. At least two rows are required. Margins
are distances from the mean and are never negative.

Examples:
  crosstemp ci boots.yaml
  crosstemp ci --confidence 0.9 --format json boots.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCI(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Confidence, "confidence", stats.DefaultConfidence, "confidence level in (0, 1)")
	return cmd
}

func runCI(opts *CIOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	rows, err := readScoreRows(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, "read scores", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "read scores", err)
	}
	formatter.VerboseLog("read %d rows from %s", len(rows), path)

	scores, err := stats.DenseFromRows(rows)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "score matrix", err)
	}
	ci, err := stats.ComputeCI(scores, opts.Confidence)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "compute ci", err)
	}

	return formatter.Success(CIOutput{
		Confidence: opts.Confidence,
		Repeats:    len(rows),
		Mean:       stats.ColumnMeans(scores),
		CI:         matrixRows(ci),
	})
}

// readScoreRows decodes a list of float rows. JSON input is valid YAML.
func readScoreRows(path string) ([][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows [][]float64
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}
