package decode

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// TimeEstimator fits on training trials and scores held-out trials across
// time bins. X is indexed [trial][neuron][bin].
type TimeEstimator interface {
	FitScore(ctx context.Context, trainX [][][]float64, trainY []int, testX [][][]float64, testY []int) (*mat.Dense, error)
}

// GeneralizingEstimator fits one classifier per training bin and scores it on
// every testing bin. The result is (train bins x test bins).
type GeneralizingEstimator struct {
	Base   Classifier
	Scorer Scorer
}

func (g *GeneralizingEstimator) FitScore(ctx context.Context, trainX [][][]float64, trainY []int, testX [][][]float64, testY []int) (*mat.Dense, error) {
	bins, err := binCount(trainX, testX)
	if err != nil {
		return nil, err
	}

	testSlices := make([][][]float64, bins)
	for t := range testSlices {
		testSlices[t] = BinSlice(testX, t)
	}

	scores := mat.NewDense(bins, bins, nil)
	decision := make([]float64, len(testY))
	for tr := 0; tr < bins; tr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clf := g.Base.Clone()
		if err := clf.Fit(BinSlice(trainX, tr), trainY); err != nil {
			return nil, atBin(err, tr)
		}
		for te := 0; te < bins; te++ {
			for i, x := range testSlices[te] {
				decision[i] = clf.Decision(x)
			}
			s, err := g.Scorer(testY, decision)
			if err != nil {
				return nil, atBin(err, tr)
			}
			scores.Set(tr, te, s)
		}
	}
	return scores, nil
}

// SlidingEstimator fits one classifier per bin and scores it on the same bin.
// The result is (1 x bins).
type SlidingEstimator struct {
	Base   Classifier
	Scorer Scorer
}

func (s *SlidingEstimator) FitScore(ctx context.Context, trainX [][][]float64, trainY []int, testX [][][]float64, testY []int) (*mat.Dense, error) {
	bins, err := binCount(trainX, testX)
	if err != nil {
		return nil, err
	}

	scores := mat.NewDense(1, bins, nil)
	decision := make([]float64, len(testY))
	for t := 0; t < bins; t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clf := s.Base.Clone()
		if err := clf.Fit(BinSlice(trainX, t), trainY); err != nil {
			return nil, atBin(err, t)
		}
		for i, x := range BinSlice(testX, t) {
			decision[i] = clf.Decision(x)
		}
		v, err := s.Scorer(testY, decision)
		if err != nil {
			return nil, atBin(err, t)
		}
		scores.Set(0, t, v)
	}
	return scores, nil
}

// BinSlice returns the (trial x neuron) feature matrix at bin t.
func BinSlice(X [][][]float64, t int) [][]float64 {
	out := make([][]float64, len(X))
	for i, trial := range X {
		row := make([]float64, len(trial))
		for n, neuron := range trial {
			row[n] = neuron[t]
		}
		out[i] = row
	}
	return out
}

func binCount(trainX, testX [][][]float64) (int, error) {
	if len(trainX) == 0 || len(testX) == 0 {
		return 0, newFitError(ErrCodeEmpty, "empty train or test set")
	}
	if len(trainX[0]) == 0 || len(trainX[0][0]) == 0 {
		return 0, newFitError(ErrCodeEmpty, "trials have no neurons or bins")
	}
	bins := len(trainX[0][0])
	if len(testX[0]) == 0 || len(testX[0][0]) != bins {
		return 0, fmt.Errorf("decode: train has %d bins, test has a different shape", bins)
	}
	return bins, nil
}
