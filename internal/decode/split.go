package decode

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/roach88/crosstemp/internal/stats"
)

// Fold holds the trial indices of one train/test split.
type Fold struct {
	Train []int
	Test  []int
}

// Splitter partitions trials into cross-validation folds.
type Splitter interface {
	Split(y []int) ([]Fold, error)
	String() string
}

// StratifiedKFold assigns the trials of each class round-robin to K folds,
// so every test fold keeps roughly the class proportions of y. Without
// Shuffle the assignment follows trial order.
type StratifiedKFold struct {
	K       int
	Shuffle bool
	Seed    int64
	Stream  uint64
}

func (s StratifiedKFold) String() string {
	return fmt.Sprintf("StratifiedKFold(k=%d, shuffle=%t)", s.K, s.Shuffle)
}

func (s StratifiedKFold) Split(y []int) ([]Fold, error) {
	if s.K < 2 {
		return nil, fmt.Errorf("decode: stratified k-fold needs k >= 2, got %d", s.K)
	}
	byClass, classes := groupByClass(y)
	for _, c := range classes {
		if n := len(byClass[c]); n < s.K {
			return nil, fmt.Errorf("decode: class %d has %d trials, fewer than k=%d folds", c, n, s.K)
		}
	}

	var rng *rand.Rand
	if s.Shuffle {
		rng = stats.NewRand(s.Seed, s.Stream)
	}

	assign := make([]int, len(y))
	offset := 0
	for _, c := range classes {
		members := byClass[c]
		if rng != nil {
			rng.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
		}
		// Continue the round-robin across classes so fold sizes stay balanced.
		for pos, idx := range members {
			assign[idx] = (offset + pos) % s.K
		}
		offset += len(members)
	}

	folds := make([]Fold, s.K)
	for idx, f := range assign {
		for k := range folds {
			if k == f {
				folds[k].Test = append(folds[k].Test, idx)
			} else {
				folds[k].Train = append(folds[k].Train, idx)
			}
		}
	}
	return folds, nil
}

// RepeatedStratifiedKFold runs a shuffled StratifiedKFold Repeats times with
// independent random streams.
type RepeatedStratifiedKFold struct {
	K       int
	Repeats int
	Seed    int64
}

func (r RepeatedStratifiedKFold) String() string {
	return fmt.Sprintf("RepeatedStratifiedKFold(k=%d, repeats=%d)", r.K, r.Repeats)
}

func (r RepeatedStratifiedKFold) Split(y []int) ([]Fold, error) {
	if r.Repeats < 1 {
		return nil, fmt.Errorf("decode: repeats must be >= 1, got %d", r.Repeats)
	}
	var out []Fold
	for rep := 0; rep < r.Repeats; rep++ {
		folds, err := StratifiedKFold{K: r.K, Shuffle: true, Seed: r.Seed, Stream: uint64(rep)}.Split(y)
		if err != nil {
			return nil, err
		}
		out = append(out, folds...)
	}
	return out, nil
}

// LeaveOneOut tests on every trial in turn.
type LeaveOneOut struct{}

func (LeaveOneOut) String() string { return "LeaveOneOut()" }

func (LeaveOneOut) Split(y []int) ([]Fold, error) {
	n := len(y)
	if n < 2 {
		return nil, fmt.Errorf("decode: leave-one-out needs at least 2 trials, got %d", n)
	}
	folds := make([]Fold, n)
	for i := range folds {
		train := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				train = append(train, j)
			}
		}
		folds[i] = Fold{Train: train, Test: []int{i}}
	}
	return folds, nil
}

// CV names the cross-validation scheme. The default is a StratifiedKFold
// over NOut folds in trial order. InFold "loo" switches to LeaveOneOut;
// OutFold "repeated" switches to RepeatedStratifiedKFold and takes precedence.
type CV struct {
	InFold      string
	OutFold     string
	NOut        int
	NRepeats    int
	RandomState int64
}

// SplitterFor returns the Splitter selected by cv.
func SplitterFor(cv CV) Splitter {
	var s Splitter = StratifiedKFold{K: cv.NOut}
	if cv.InFold == "loo" {
		s = LeaveOneOut{}
	}
	if cv.OutFold == "repeated" {
		s = RepeatedStratifiedKFold{K: cv.NOut, Repeats: cv.NRepeats, Seed: cv.RandomState}
	}
	return s
}

func groupByClass(y []int) (map[int][]int, []int) {
	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return byClass, classes
}
