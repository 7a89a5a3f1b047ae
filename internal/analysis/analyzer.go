package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/crosstemp/internal/dataset"
	"github.com/roach88/crosstemp/internal/decode"
	"github.com/roach88/crosstemp/internal/options"
	"github.com/roach88/crosstemp/internal/preprocess"
	"github.com/roach88/crosstemp/internal/runid"
	"github.com/roach88/crosstemp/internal/stats"
)

// Clock supplies wall time for elapsed-time measurement.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Random streams derived from random_state. Splitters use streams below
// streamBoots (one per repeat).
const (
	streamBoots    uint64 = 1 << 32
	streamShuffles uint64 = 2 << 32
)

// Analyzer runs analyses on a recording.
type Analyzer struct {
	// Clock measures elapsed time; nil uses the system clock.
	Clock Clock
	// Logger receives progress; nil uses slog.Default().
	Logger *slog.Logger
}

func (a *Analyzer) clock() Clock {
	if a.Clock == nil {
		return systemClock{}
	}
	return a.Clock
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// Prepared is the decoding input after preprocessing and selection.
type Prepared struct {
	Selection *dataset.Selection
	Times     []float64
}

// Prepare applies baseline normalization and epoch averaging to rec and
// selects the trials named by opts. rec is not modified.
func Prepare(rec *dataset.Recording, opts *options.Options) (*Prepared, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	processed, err := preprocess.Baseline(rec, preprocess.BaselineOptions{
		Scaler:   opts.ScalerBL,
		AvgMean:  opts.AvgMeanBL,
		UnitVar:  opts.UnitVarBL,
		AvgNoise: opts.AvgNoiseBL,
		Window:   opts.BinsBL,
	})
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}

	if opts.AvgEpochs {
		epochs := make([]preprocess.Epoch, len(opts.Epochs))
		for i, e := range opts.Epochs {
			epochs[i] = preprocess.Epoch{Name: e.Name, Start: e.Start, End: e.End}
		}
		processed, err = preprocess.AvgEpochs(processed, epochs)
		if err != nil {
			return nil, fmt.Errorf("average epochs: %w", err)
		}
	}

	sel, err := dataset.Select(processed, opts.Features, opts.Day, opts.Task)
	if err != nil {
		return nil, err
	}
	return &Prepared{Selection: sel, Times: processed.BinTimes()}, nil
}

// CrossTemporal computes the cross-validated temporal generalization matrix.
func (a *Analyzer) CrossTemporal(ctx context.Context, rec *dataset.Recording, opts *options.Options) (*Result, error) {
	prep, err := Prepare(rec, opts)
	if err != nil {
		return nil, err
	}
	sel := prep.Selection
	a.logShape(sel)

	// Only decoding is timed.
	start := a.clock().Now()

	est, err := newEstimator(opts, true)
	if err != nil {
		return nil, err
	}
	folds, err := a.splitFolds(opts, sel.Y)
	if err != nil {
		return nil, err
	}

	perFold, err := decode.CrossValMultiscore(ctx, est, sel.X, sel.Y, folds, opts.NJobs)
	if err != nil {
		return nil, fmt.Errorf("cross-validate: %w", err)
	}

	res, err := newResult(KindCrossTemporal, opts, sel, prep.Times)
	if err != nil {
		return nil, err
	}
	res.Scores = decode.MeanScores(perFold)
	res.Elapsed = a.clock().Now().Sub(start)
	return res, nil
}

// TimeResolved computes the diagonal score, then NBoots stratified bootstrap
// repeats and NShuffles label-permutation repeats. Repeat matrices with at
// least two rows get percentile confidence margins.
func (a *Analyzer) TimeResolved(ctx context.Context, rec *dataset.Recording, opts *options.Options) (*Result, error) {
	prep, err := Prepare(rec, opts)
	if err != nil {
		return nil, err
	}
	sel := prep.Selection
	a.logShape(sel)

	// Only decoding is timed.
	start := a.clock().Now()

	est, err := newEstimator(opts, false)
	if err != nil {
		return nil, err
	}

	scores, err := a.slidingScores(ctx, est, opts, sel.X, sel.Y)
	if err != nil {
		return nil, err
	}

	res, err := newResult(KindTimeResolved, opts, sel, prep.Times)
	if err != nil {
		return nil, err
	}
	res.Scores = scores

	if opts.NBoots > 0 {
		res.Boots, err = a.repeat(ctx, "bootstrap", opts.NBoots, func(i int) ([]float64, error) {
			idx := stats.StratifiedResample(stats.NewRand(opts.RandomState, streamBoots+uint64(i)), sel.Y)
			X, y := decode.Gather(sel.X, sel.Y, idx)
			return a.slidingRow(ctx, est, opts, X, y)
		})
		if err != nil {
			return nil, err
		}
		if res.CI, err = marginsFor(res.Boots, opts.Confidence); err != nil {
			return nil, fmt.Errorf("bootstrap ci: %w", err)
		}
	}

	if opts.NShuffles > 0 {
		res.Shuffles, err = a.repeat(ctx, "shuffle", opts.NShuffles, func(i int) ([]float64, error) {
			y := stats.Permute(stats.NewRand(opts.RandomState, streamShuffles+uint64(i)), sel.Y)
			return a.slidingRow(ctx, est, opts, sel.X, y)
		})
		if err != nil {
			return nil, err
		}
		if res.NullCI, err = marginsFor(res.Shuffles, opts.Confidence); err != nil {
			return nil, fmt.Errorf("shuffle ci: %w", err)
		}
	}

	res.Elapsed = a.clock().Now().Sub(start)
	return res, nil
}

func (a *Analyzer) logShape(sel *dataset.Selection) {
	trials, neurons, bins := sel.Shape()
	a.logger().Info("selected trials", "trials", trials, "neurons", neurons, "bins", bins)
}

func (a *Analyzer) splitFolds(opts *options.Options, y []int) ([]decode.Fold, error) {
	splitter := decode.SplitterFor(decode.CV{
		InFold:      opts.InFold,
		OutFold:     opts.OutFold,
		NOut:        opts.NOut,
		NRepeats:    opts.NRepeats,
		RandomState: opts.RandomState,
	})
	folds, err := splitter.Split(y)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	a.logger().Debug("cross-validation", "splitter", splitter.String(), "folds", len(folds), "jobs", opts.NJobs)
	return folds, nil
}

func (a *Analyzer) slidingScores(ctx context.Context, est decode.TimeEstimator, opts *options.Options, X [][][]float64, y []int) (*mat.Dense, error) {
	row, err := a.slidingRow(ctx, est, opts, X, y)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(1, len(row), row), nil
}

// slidingRow cross-validates a sliding estimator and returns the fold-mean
// score per bin.
func (a *Analyzer) slidingRow(ctx context.Context, est decode.TimeEstimator, opts *options.Options, X [][][]float64, y []int) ([]float64, error) {
	folds, err := a.splitFolds(opts, y)
	if err != nil {
		return nil, err
	}
	perFold, err := decode.CrossValMultiscore(ctx, est, X, y, folds, opts.NJobs)
	if err != nil {
		return nil, fmt.Errorf("cross-validate: %w", err)
	}
	mean := decode.MeanScores(perFold)
	return mat.Row(nil, 0, mean), nil
}

// repeat runs fn n times and stacks the rows into an (n x T) matrix.
func (a *Analyzer) repeat(ctx context.Context, what string, n int, fn func(i int) ([]float64, error)) (*mat.Dense, error) {
	rows := make([][]float64, n)
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := fn(i)
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", what, i, err)
		}
		rows[i] = row
		a.logger().Debug(what, "repeat", i+1, "of", n)
	}
	return stats.DenseFromRows(rows)
}

// marginsFor returns ComputeCI margins, or nil for fewer than two repeats.
func marginsFor(repeats *mat.Dense, confidence float64) (*mat.Dense, error) {
	if r, _ := repeats.Dims(); r < 2 {
		return nil, nil
	}
	return stats.ComputeCI(repeats, confidence)
}

func newEstimator(opts *options.Options, generalizing bool) (decode.TimeEstimator, error) {
	clf, err := decode.New(decode.Config{
		Clf:       opts.Clf,
		C:         opts.C,
		Shrinkage: opts.Shrinkage,
		MaxIter:   opts.MaxIter,
		Scaler:    opts.Scaler,
	})
	if err != nil {
		return nil, err
	}
	scorer, err := decode.ScorerFor(opts.OuterScore)
	if err != nil {
		return nil, err
	}
	if generalizing {
		return &decode.GeneralizingEstimator{Base: clf, Scorer: scorer}, nil
	}
	return &decode.SlidingEstimator{Base: clf, Scorer: scorer}, nil
}

func shapeOf(sel *dataset.Selection) []int {
	trials, neurons, bins := sel.Shape()
	return []int{trials, neurons, bins}
}

func newResult(kind Kind, opts *options.Options, sel *dataset.Selection, times []float64) (*Result, error) {
	shape := shapeOf(sel)
	hash, err := runid.RunHash(withKind(opts.ToMap(), kind), shape)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:    kind,
		Options: opts,
		Shape:   shape,
		Times:   times,
		Hash:    hash,
	}, nil
}

func withKind(m map[string]any, kind Kind) map[string]any {
	m["kind"] = string(kind)
	return m
}
