package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultConfidence is the two-sided confidence level used when none is configured.
const DefaultConfidence = 0.95

var (
	// ErrEmptyScores is returned when the score matrix has no rows or no columns.
	ErrEmptyScores = errors.New("stats: score matrix is empty")

	// ErrTooFewRepeats is returned when fewer than two repeats are available.
	ErrTooFewRepeats = errors.New("stats: at least two repeated measurements are required")

	// ErrInvalidConfidence is returned when confidence is outside (0, 1).
	ErrInvalidConfidence = errors.New("stats: confidence must be in the open interval (0, 1)")

	// ErrNonFinite is returned when a score is NaN or infinite.
	ErrNonFinite = errors.New("stats: scores must be finite")
)

// Margin column indices of the matrix returned by ComputeCI.
const (
	LowerCol = 0
	UpperCol = 1
)

// ComputeCI computes a two-sided percentile confidence interval around the
// mean of every column of scores.
//
// scores has shape (R, T): R repeated measurements of T positions. The result
// has shape (T, 2); column LowerCol holds mean-lowerPercentile and column
// UpperCol holds upperPercentile-mean. Percentiles are taken at
// (1-confidence)/2 and confidence+(1-confidence)/2 with linear interpolation
// between order statistics.
//
// Margins are never negative. NaN or infinite scores are rejected with
// ErrNonFinite. A column whose values are all equal yields
// zero margins at any confidence.
func ComputeCI(scores mat.Matrix, confidence float64) (*mat.Dense, error) {
	if scores == nil {
		return nil, ErrEmptyScores
	}
	r, c := scores.Dims()
	if r == 0 || c == 0 {
		return nil, ErrEmptyScores
	}
	if r < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewRepeats, r)
	}
	if !(confidence > 0 && confidence < 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidConfidence, confidence)
	}

	lowerP := (1 - confidence) / 2 * 100
	upperP := (confidence + (1-confidence)/2) * 100

	ci := mat.NewDense(c, 2, nil)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, scores)
		for i, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %v at repeat %d, position %d", ErrNonFinite, v, i, j)
			}
		}
		sort.Float64s(col)

		// Constant column: the float mean may drift by an ulp from the value.
		if col[0] == col[r-1] {
			continue
		}

		mean := stat.Mean(col, nil)
		ci.Set(j, LowerCol, nonNegative(mean-Percentile(col, lowerP)))
		ci.Set(j, UpperCol, nonNegative(Percentile(col, upperP)-mean))
	}
	return ci, nil
}

// Percentile returns the p-th percentile (0..100) of an ascending slice using
// linear interpolation between the order statistics at rank p/100*(n-1).
// Returns NaN for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	p = math.Max(0, math.Min(100, p))

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// ColumnMeans returns the mean of every column of m.
func ColumnMeans(m mat.Matrix) []float64 {
	r, c := m.Dims()
	means := make([]float64, c)
	col := make([]float64, r)
	for j := range means {
		mat.Col(col, j, m)
		means[j] = stat.Mean(col, nil)
	}
	return means
}

// DenseFromRows copies a non-ragged row-major slice into a dense matrix.
func DenseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyScores
	}
	width := len(rows[0])
	data := make([]float64, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("stats: row %d has %d columns, want %d", i, len(row), width)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), width, data), nil
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
