package store

import (
	"path/filepath"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/crosstemp/internal/dataset"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecording builds a 2-neuron, 3-bin recording whose values encode
// their position: day*1000 + trial*100 + neuron*10 + bin.
func createTestRecording() *dataset.Recording {
	rec := &dataset.Recording{Name: "test", Neurons: 2, Bins: 3, Duration: 3}
	for _, day := range []int{2, 1} {
		for trial := 0; trial < 2; trial++ {
			x := make([][]float64, 2)
			for n := range x {
				x[n] = make([]float64, 3)
				for b := range x[n] {
					x[n][b] = float64(day*1000 + trial*100 + n*10 + b)
				}
			}
			rec.Trials = append(rec.Trials, dataset.Trial{
				Day:        day,
				Index:      trial,
				Task:       "DPA",
				Sample:     trial,
				Distractor: -1,
				Choice:     1 - trial,
				X:          x,
			})
		}
	}
	return rec
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id, features, day, task string) Run {
	return Run{
		ID:       id,
		Hash:     "hash-" + id,
		Kind:     KindCrossTemporal,
		Features: features,
		Day:      day,
		Task:     task,
		Options:  map[string]any{"clf": "logistic", "n_out": 5},
		Shape:    []int{10, 2, 3},
		Elapsed:  1500 * time.Millisecond,
		Matrices: map[string]*mat.Dense{
			MatrixScores: mat.NewDense(2, 2, []float64{0.5, 0.6, 0.7, 0.8}),
		},
	}
}
