package decode

import (
	"fmt"
	"sort"
)

// Scorer names accepted by ScorerFor.
const (
	ScoreAccuracy = "accuracy"
	ScoreROCAUC   = "roc_auc"
	ScoreF1       = "f1"
)

// Scorer rates decision values against true labels; higher is better.
type Scorer func(y []int, decision []float64) (float64, error)

// ScorerFor returns the Scorer registered under name.
func ScorerFor(name string) (Scorer, error) {
	switch name {
	case ScoreAccuracy, "":
		return Accuracy, nil
	case ScoreROCAUC:
		return ROCAUC, nil
	case ScoreF1:
		return F1, nil
	}
	return nil, fmt.Errorf("decode: unknown scorer %q", name)
}

// Accuracy is the fraction of correctly predicted labels.
func Accuracy(y []int, decision []float64) (float64, error) {
	if len(y) == 0 {
		return 0, newFitError(ErrCodeEmpty, "no test samples")
	}
	var hits int
	for i, d := range decision {
		if predicted(d) == y[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(y)), nil
}

// ROCAUC is the area under the ROC curve, computed as the Mann-Whitney
// statistic with average ranks for ties.
func ROCAUC(y []int, decision []float64) (float64, error) {
	n := len(y)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return decision[order[a]] < decision[order[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && decision[order[j+1]] == decision[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}

	var nPos, nNeg int
	var rankSum float64
	for i, label := range y {
		if label == 1 {
			nPos++
			rankSum += ranks[i]
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, newFitError(ErrCodeUndefinedScore, "roc_auc needs both classes in the test set")
	}
	u := rankSum - float64(nPos*(nPos+1))/2
	return u / float64(nPos*nNeg), nil
}

// F1 is the harmonic mean of precision and recall for class 1. It is 0 when
// there are no true positives.
func F1(y []int, decision []float64) (float64, error) {
	if len(y) == 0 {
		return 0, newFitError(ErrCodeEmpty, "no test samples")
	}
	var tp, fp, fn int
	for i, d := range decision {
		switch p := predicted(d); {
		case p == 1 && y[i] == 1:
			tp++
		case p == 1:
			fp++
		case y[i] == 1:
			fn++
		}
	}
	if tp == 0 {
		return 0, nil
	}
	return 2 * float64(tp) / float64(2*tp+fp+fn), nil
}

func predicted(decision float64) int {
	if decision > 0 {
		return 1
	}
	return 0
}
