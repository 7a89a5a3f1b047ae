package decode

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// CrossValMultiscore scores est on every fold and returns one score matrix
// per fold, in fold order. Folds run concurrently on at most jobs workers;
// jobs <= 0 uses one worker per CPU. The first failing fold cancels the rest.
func CrossValMultiscore(ctx context.Context, est TimeEstimator, X [][][]float64, y []int, folds []Fold, jobs int) ([]*mat.Dense, error) {
	if len(X) != len(y) {
		return nil, fmt.Errorf("decode: %d trials but %d labels", len(X), len(y))
	}
	if len(folds) == 0 {
		return nil, newFitError(ErrCodeEmpty, "no cross-validation folds")
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]*mat.Dense, len(folds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for k, fold := range folds {
		g.Go(func() error {
			trainX, trainY := Gather(X, y, fold.Train)
			testX, testY := Gather(X, y, fold.Test)
			scores, err := est.FitScore(ctx, trainX, trainY, testX, testY)
			if err != nil {
				return atFold(err, k)
			}
			results[k] = scores
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MeanScores averages per-fold score matrices element-wise.
func MeanScores(folds []*mat.Dense) *mat.Dense {
	if len(folds) == 0 {
		return nil
	}
	r, c := folds[0].Dims()
	mean := mat.NewDense(r, c, nil)
	for _, f := range folds {
		mean.Add(mean, f)
	}
	mean.Scale(1/float64(len(folds)), mean)
	return mean
}

// Gather returns the trials of X and y at idx, in idx order. Trial slices
// are shared, not copied.
func Gather(X [][][]float64, y []int, idx []int) ([][][]float64, []int) {
	xs := make([][][]float64, len(idx))
	ys := make([]int, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = y[j]
	}
	return xs, ys
}
