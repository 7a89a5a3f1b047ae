package decode

import (
	"fmt"
	"math"
)

// Classifier is a binary linear decoder.
type Classifier interface {
	// Fit trains on rows of X (samples x features) with labels in {0, 1}.
	Fit(X [][]float64, y []int) error

	// Decision returns the signed decision value for one sample;
	// positive values predict class 1.
	Decision(x []float64) float64

	// Clone returns an unfitted classifier with the same hyperparameters.
	Clone() Classifier
}

// Predict returns the class predicted by c for x.
func Predict(c Classifier, x []float64) int {
	if c.Decision(x) > 0 {
		return 1
	}
	return 0
}

// checkTrainingSet validates shapes and returns the class counts.
func checkTrainingSet(X [][]float64, y []int) (n0, n1 int, err error) {
	if len(X) == 0 || len(X[0]) == 0 {
		return 0, 0, newFitError(ErrCodeEmpty, "empty training set")
	}
	if len(X) != len(y) {
		return 0, 0, fmt.Errorf("decode: %d samples but %d labels", len(X), len(y))
	}
	p := len(X[0])
	for i, x := range X {
		if len(x) != p {
			return 0, 0, fmt.Errorf("decode: sample %d has %d features, want %d", i, len(x), p)
		}
		switch y[i] {
		case 0:
			n0++
		case 1:
			n1++
		default:
			return 0, 0, fmt.Errorf("decode: label %d at sample %d is not binary", y[i], i)
		}
	}
	if n0 == 0 || n1 == 0 {
		return n0, n1, newFitError(ErrCodeSingleClass, "training set has %d/%d samples per class", n0, n1)
	}
	return n0, n1, nil
}

// classMeans returns the per-feature means of class 0 and class 1.
func classMeans(X [][]float64, y []int) (mu0, mu1 []float64) {
	p := len(X[0])
	mu0 = make([]float64, p)
	mu1 = make([]float64, p)
	var n0, n1 float64
	for i, x := range X {
		dst := mu0
		if y[i] == 1 {
			dst = mu1
			n1++
		} else {
			n0++
		}
		for j, v := range x {
			dst[j] += v
		}
	}
	for j := range mu0 {
		mu0[j] /= n0
		mu1[j] /= n1
	}
	return mu0, mu1
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
