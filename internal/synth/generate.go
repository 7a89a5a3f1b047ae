package synth

import (
	"math"
	"slices"

	"github.com/roach88/crosstemp/internal/dataset"
	"github.com/roach88/crosstemp/internal/stats"
)

// Random streams derived from the scenario seed.
const (
	streamNoise uint64 = iota
	streamSelectivity
)

// Generate builds the recording described by s. Labels are assigned in a
// fixed order; only activity is random.
func Generate(s *Scenario) (*dataset.Recording, error) {
	if err := validateScenario(s); err != nil {
		return nil, err
	}

	rec := &dataset.Recording{
		Name:     s.Name,
		Neurons:  s.Neurons,
		Bins:     s.Bins,
		Duration: s.Duration,
	}
	times := rec.BinTimes()
	tuning := selectivity(s)
	noise := stats.NewRand(s.Seed, streamNoise)
	flipped := int(math.Round(s.ErrorRate * float64(s.TrialsPerCondition)))

	for day := 1; day <= s.Days; day++ {
		index := 0
		for _, task := range s.Tasks {
			distractors := []int{dataset.NoLabel}
			if task.Distractor {
				distractors = []int{0, 1}
			}
			for sample := 0; sample <= 1; sample++ {
				for _, distractor := range distractors {
					for rep := 0; rep < s.TrialsPerCondition; rep++ {
						choice := sample
						if rep >= s.TrialsPerCondition-flipped {
							choice = 1 - sample
						}
						tr := dataset.Trial{
							Day:        day,
							Index:      index,
							Task:       task.Name,
							Sample:     sample,
							Distractor: distractor,
							Choice:     choice,
						}
						tr.X = activity(s, &tr, times, tuning, noise.NormFloat64)
						rec.Trials = append(rec.Trials, tr)
						index++
					}
				}
			}
		}
	}
	return rec, nil
}

// selectivity returns, per signal, the preferred sign of every neuron:
// +1 or -1 for selective neurons, 0 otherwise.
func selectivity(s *Scenario) [][]float64 {
	rng := stats.NewRand(s.Seed, streamSelectivity)
	out := make([][]float64, len(s.Signals))
	for i, sig := range s.Signals {
		signs := make([]float64, s.Neurons)
		k := int(math.Ceil(sig.Fraction * float64(s.Neurons)))
		for _, n := range rng.Perm(s.Neurons)[:k] {
			signs[n] = 1
			if rng.IntN(2) == 0 {
				signs[n] = -1
			}
		}
		out[i] = signs
	}
	return out
}

func activity(s *Scenario, tr *dataset.Trial, times []float64, tuning [][]float64, norm func() float64) [][]float64 {
	x := make([][]float64, s.Neurons)
	for n := range x {
		row := make([]float64, s.Bins)
		for b := range row {
			row[b] = s.Noise * norm()
		}
		x[n] = row
	}

	for i, sig := range s.Signals {
		if len(sig.Tasks) > 0 && !slices.Contains(sig.Tasks, tr.Task) {
			continue
		}
		label, _ := tr.Label(sig.Label)
		if label == dataset.NoLabel {
			continue
		}
		drive := sig.Amplitude * float64(2*label-1)
		for b, t := range times {
			if t < sig.Start || t >= sig.End {
				continue
			}
			for n, sign := range tuning[i] {
				x[n][b] += sign * drive
			}
		}
	}
	return x
}
