// Package preprocess normalizes recordings before decoding: baseline
// scaling per neuron and averaging of bins within task epochs.
package preprocess

import (
	"fmt"

	"github.com/roach88/crosstemp/internal/dataset"
	"github.com/roach88/crosstemp/internal/stats"
)

// Baseline scalers.
const (
	ScalerStandard = "standard"
	ScalerRobust   = "robust"
	ScalerNone     = "none"
)

// BaselineOptions selects how activity is normalized against the
// pre-stimulus baseline window.
type BaselineOptions struct {
	// Scaler is ScalerStandard (mean/population std), ScalerRobust
	// (median/IQR) or ScalerNone. Both match the decode scalers of the
	// same name.
	Scaler string
	// AvgMean subtracts the baseline centre.
	AvgMean bool
	// UnitVar divides by the baseline spread.
	UnitVar bool
	// AvgNoise subtracts, per day, the across-trial mean of every neuron and bin.
	AvgNoise bool
	// Window is the baseline window in seconds, [start, end).
	Window [2]float64
}

// Baseline returns a normalized copy of rec. Baseline statistics are pooled
// per (day, neuron) over all trials of that day and the bins of the window.
// A zero spread leaves the scale unchanged.
func Baseline(rec *dataset.Recording, opts BaselineOptions) (*dataset.Recording, error) {
	switch opts.Scaler {
	case ScalerStandard, ScalerRobust, ScalerNone:
	default:
		return nil, fmt.Errorf("preprocess: unknown baseline scaler %q", opts.Scaler)
	}

	out := cloneRecording(rec)
	if opts.Scaler != ScalerNone && (opts.AvgMean || opts.UnitVar) {
		lo, hi := rec.BinRange(opts.Window[0], opts.Window[1])
		if lo >= hi {
			return nil, fmt.Errorf("preprocess: baseline window %v contains no bins", opts.Window)
		}
		for _, day := range rec.Days() {
			trials := trialsOfDay(out, day)
			for n := 0; n < rec.Neurons; n++ {
				center, scale := baselineStats(trials, n, lo, hi, opts.Scaler)
				if !opts.AvgMean {
					center = 0
				}
				if !opts.UnitVar || scale == 0 {
					scale = 1
				}
				for _, t := range trials {
					row := t.X[n]
					for b := range row {
						row[b] = (row[b] - center) / scale
					}
				}
			}
		}
	}

	if opts.AvgNoise {
		for _, day := range rec.Days() {
			subtractTrialMean(trialsOfDay(out, day), rec.Neurons, rec.Bins)
		}
	}
	return out, nil
}

// baselineStats returns the (centre, spread) of neuron n over bins [lo, hi)
// of all trials.
func baselineStats(trials []*dataset.Trial, n, lo, hi int, scaler string) (center, scale float64) {
	values := make([]float64, 0, len(trials)*(hi-lo))
	for _, t := range trials {
		values = append(values, t.X[n][lo:hi]...)
	}
	if scaler == ScalerRobust {
		return stats.Robust(values)
	}
	return stats.Standard(values)
}

func subtractTrialMean(trials []*dataset.Trial, neurons, bins int) {
	if len(trials) == 0 {
		return
	}
	inv := 1 / float64(len(trials))
	for n := 0; n < neurons; n++ {
		for b := 0; b < bins; b++ {
			var sum float64
			for _, t := range trials {
				sum += t.X[n][b]
			}
			mean := sum * inv
			for _, t := range trials {
				t.X[n][b] -= mean
			}
		}
	}
}

func trialsOfDay(rec *dataset.Recording, day int) []*dataset.Trial {
	var out []*dataset.Trial
	for i := range rec.Trials {
		if rec.Trials[i].Day == day {
			out = append(out, &rec.Trials[i])
		}
	}
	return out
}

// cloneRecording deep-copies the activity; labels are copied by value.
func cloneRecording(rec *dataset.Recording) *dataset.Recording {
	out := *rec
	out.Trials = make([]dataset.Trial, len(rec.Trials))
	for i, t := range rec.Trials {
		x := make([][]float64, len(t.X))
		for n, row := range t.X {
			x[n] = append([]float64(nil), row...)
		}
		t.X = x
		out.Trials[i] = t
	}
	if rec.Times != nil {
		out.Times = append([]float64(nil), rec.Times...)
	}
	return &out
}
