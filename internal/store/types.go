package store

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
)

// RunKind identifies the analysis that produced a run.
type RunKind string

const (
	KindCrossTemporal RunKind = "cross_temporal"
	KindTimeResolved  RunKind = "time_resolved"
)

// Matrix names used by the analyses.
const (
	MatrixScores   = "scores"
	MatrixCI       = "ci"
	MatrixBoots    = "boots"
	MatrixShuffles = "shuffles"
	MatrixNullCI   = "null_ci"
)

// Run is a persisted decoding run.
type Run struct {
	Seq      int64 // assigned by the store
	ID       string
	Hash     string
	Kind     RunKind
	Features string
	Day      string
	Task     string
	Options  map[string]any
	Shape    []int
	Figure   string
	Elapsed  time.Duration

	// Matrices is nil for runs returned by ListRuns.
	Matrices map[string]*mat.Dense
}

// Diagonal returns the score of every bin decoded on itself: the single
// row of a time-resolved run, or the main diagonal of a cross-temporal
// matrix.
func Diagonal(kind RunKind, scores mat.Matrix) []float64 {
	if kind == KindTimeResolved {
		return mat.Row(nil, 0, scores)
	}
	r, c := scores.Dims()
	out := make([]float64, min(r, c))
	for i := range out {
		out[i] = scores.At(i, i)
	}
	return out
}

// RecordingInfo summarizes the stored recording.
type RecordingInfo struct {
	Name     string
	Neurons  int
	Bins     int
	Duration float64
	Hash     string
	Trials   int
}

func sortedMatrixNames(m map[string]*mat.Dense) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
