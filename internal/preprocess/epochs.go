package preprocess

import (
	"fmt"
	"sort"

	"github.com/roach88/crosstemp/internal/dataset"
)

// Epoch is a named time window in seconds, [Start, End).
type Epoch struct {
	Name  string
	Start float64
	End   float64
}

// AvgEpochs returns a recording with one bin per epoch holding the mean
// activity of the original bins inside that epoch. Epochs are ordered by
// start time and the new bin times are the epoch midpoints.
func AvgEpochs(rec *dataset.Recording, epochs []Epoch) (*dataset.Recording, error) {
	if len(epochs) == 0 {
		return nil, fmt.Errorf("preprocess: no epochs to average")
	}
	sorted := append([]Epoch(nil), epochs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	type span struct{ lo, hi int }
	spans := make([]span, len(sorted))
	times := make([]float64, len(sorted))
	for i, e := range sorted {
		lo, hi := rec.BinRange(e.Start, e.End)
		if lo >= hi {
			return nil, fmt.Errorf("preprocess: epoch %s [%v, %v) contains no bins", e.Name, e.Start, e.End)
		}
		spans[i] = span{lo, hi}
		times[i] = (e.Start + e.End) / 2
	}

	out := *rec
	out.Bins = len(sorted)
	out.Times = times
	out.Trials = make([]dataset.Trial, len(rec.Trials))
	for i, t := range rec.Trials {
		x := make([][]float64, len(t.X))
		for n, row := range t.X {
			x[n] = make([]float64, len(spans))
			for k, s := range spans {
				var sum float64
				for _, v := range row[s.lo:s.hi] {
					sum += v
				}
				x[n][k] = sum / float64(s.hi-s.lo)
			}
		}
		t.X = x
		out.Trials[i] = t
	}
	return &out, nil
}
