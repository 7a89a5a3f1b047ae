package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Selection is the labelled trial set for one decoding question.
type Selection struct {
	// X is indexed [trial][neuron][bin].
	X [][][]float64
	// Y holds the binary class of every trial.
	Y []int
	// Trials holds the index of every selected trial in the recording.
	Trials []int
}

// Shape returns (trials, neurons, bins).
func (s *Selection) Shape() (trials, neurons, bins int) {
	if len(s.X) == 0 || len(s.X[0]) == 0 {
		return len(s.X), 0, 0
	}
	return len(s.X), len(s.X[0]), len(s.X[0][0])
}

// ResolveDay maps a day identifier to concrete days of rec.
func ResolveDay(rec *Recording, day string) ([]int, error) {
	return ResolveDays(rec.Days(), day)
}

// ResolveDays maps a day identifier to a subset of the ascending day list
// days. Accepted identifiers: "first", "last", "all", or a listed day number.
func ResolveDays(days []int, day string) ([]int, error) {
	if len(days) == 0 {
		return nil, ErrEmptyRecording
	}
	switch strings.ToLower(day) {
	case "first":
		return days[:1], nil
	case "last":
		return days[len(days)-1:], nil
	case "all":
		return days, nil
	}
	n, err := strconv.Atoi(day)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	for _, d := range days {
		if d == n {
			return []int{n}, nil
		}
	}
	return nil, fmt.Errorf("%w: %d (have %v)", ErrUnknownDay, n, days)
}

// Select returns the trials of the given day and task, labelled by the
// feature named features. Task "all" keeps every task; task names match
// case-insensitively. Trials without a value for the label are dropped.
// The selection must contain both classes 0 and 1.
func Select(rec *Recording, features, day, task string) (*Selection, error) {
	days, err := ResolveDay(rec, day)
	if err != nil {
		return nil, err
	}
	keepDay := make(map[int]bool, len(days))
	for _, d := range days {
		keepDay[d] = true
	}

	sel := &Selection{}
	var counts [2]int
	for i := range rec.Trials {
		t := &rec.Trials[i]
		if !keepDay[t.Day] {
			continue
		}
		if !strings.EqualFold(task, "all") && !strings.EqualFold(task, t.Task) {
			continue
		}
		label, err := t.Label(features)
		if err != nil {
			return nil, err
		}
		if label == NoLabel {
			continue
		}
		if label != 0 && label != 1 {
			return nil, fmt.Errorf("dataset: trial %d (day %d) has non-binary %s label %d", t.Index, t.Day, features, label)
		}
		counts[label]++
		sel.X = append(sel.X, t.X)
		sel.Y = append(sel.Y, label)
		sel.Trials = append(sel.Trials, i)
	}

	if counts[0] == 0 || counts[1] == 0 {
		return nil, fmt.Errorf("%w: %s day=%s task=%s has %d/%d trials", ErrSingleClass, features, day, task, counts[0], counts[1])
	}
	return sel, nil
}
