// Package dataset defines binned population recordings and the selection
// of labelled trials for one decoding question.
package dataset

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyRecording is returned when a recording has no trials.
	ErrEmptyRecording = errors.New("dataset: recording has no trials")

	// ErrUnknownDay is returned when a day identifier matches no trials.
	ErrUnknownDay = errors.New("dataset: unknown day")

	// ErrUnknownFeatures is returned for an unsupported label name.
	ErrUnknownFeatures = errors.New("dataset: unknown features")

	// ErrSingleClass is returned when a selection does not contain both classes.
	ErrSingleClass = errors.New("dataset: selection must contain both classes")
)

// NoLabel marks a trial that has no value for a label (e.g. no distractor).
const NoLabel = -1

// Trial is one recorded trial: population activity plus its labels.
type Trial struct {
	Day        int
	Index      int
	Task       string
	Sample     int
	Distractor int
	Choice     int

	// X is indexed [neuron][bin].
	X [][]float64
}

// Label returns the label named by features.
func (t *Trial) Label(features string) (int, error) {
	switch features {
	case "sample":
		return t.Sample, nil
	case "distractor":
		return t.Distractor, nil
	case "choice":
		return t.Choice, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFeatures, features)
	}
}

// Recording is a set of trials with a common neuron and bin layout.
type Recording struct {
	Name     string
	Neurons  int
	Bins     int
	Duration float64
	Trials   []Trial

	// Times overrides the bin times; nil means evenly spaced over [0, Duration].
	Times []float64
}

// Validate checks that every trial matches the declared layout.
func (r *Recording) Validate() error {
	if len(r.Trials) == 0 {
		return ErrEmptyRecording
	}
	if r.Neurons <= 0 || r.Bins <= 0 {
		return fmt.Errorf("dataset: invalid layout %d neurons x %d bins", r.Neurons, r.Bins)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("dataset: invalid duration %v", r.Duration)
	}
	if r.Times != nil && len(r.Times) != r.Bins {
		return fmt.Errorf("dataset: %d bin times for %d bins", len(r.Times), r.Bins)
	}
	for i := range r.Trials {
		t := &r.Trials[i]
		if len(t.X) != r.Neurons {
			return fmt.Errorf("dataset: trial %d (day %d) has %d neurons, want %d", t.Index, t.Day, len(t.X), r.Neurons)
		}
		for n, row := range t.X {
			if len(row) != r.Bins {
				return fmt.Errorf("dataset: trial %d (day %d) neuron %d has %d bins, want %d", t.Index, t.Day, n, len(row), r.Bins)
			}
		}
	}
	return nil
}

// Days returns the distinct days in ascending order.
func (r *Recording) Days() []int {
	seen := make(map[int]bool)
	var days []int
	for _, t := range r.Trials {
		if !seen[t.Day] {
			seen[t.Day] = true
			days = append(days, t.Day)
		}
	}
	sort.Ints(days)
	return days
}

// Tasks returns the distinct task names in ascending order.
func (r *Recording) Tasks() []string {
	seen := make(map[string]bool)
	var tasks []string
	for _, t := range r.Trials {
		if !seen[t.Task] {
			seen[t.Task] = true
			tasks = append(tasks, t.Task)
		}
	}
	sort.Strings(tasks)
	return tasks
}

// BinTimes returns the time of every bin: Times when set, otherwise Bins
// points evenly spaced over [0, Duration], endpoints included.
func (r *Recording) BinTimes() []float64 {
	if r.Times != nil {
		return r.Times
	}
	return Linspace(0, r.Duration, r.Bins)
}

// Linspace returns n evenly spaced points over [start, stop].
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// BinRange returns the half-open bin index range [lo, hi) of bins whose time
// falls in [start, end). An empty window yields lo == hi.
func (r *Recording) BinRange(start, end float64) (lo, hi int) {
	times := r.BinTimes()
	lo = sort.SearchFloat64s(times, start)
	hi = sort.SearchFloat64s(times, end)
	return lo, hi
}
