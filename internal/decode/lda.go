package decode

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LDA is linear discriminant analysis with a pooled covariance shrunk toward
// a scaled identity. Shrinkage 0 is plain LDA; 1 ignores feature correlations.
type LDA struct {
	Shrinkage float64

	w []float64
	b float64
}

// NewLDA returns a shrinkage LDA classifier.
func NewLDA(shrinkage float64) *LDA {
	return &LDA{Shrinkage: shrinkage}
}

func (l *LDA) Clone() Classifier {
	return &LDA{Shrinkage: l.Shrinkage}
}

func (l *LDA) Fit(X [][]float64, y []int) error {
	n0, n1, err := checkTrainingSet(X, y)
	if err != nil {
		return err
	}
	p := len(X[0])
	mu0, mu1 := classMeans(X, y)

	cov := mat.NewSymDense(p, nil)
	dev := mat.NewVecDense(p, nil)
	for i, x := range X {
		mu := mu0
		if y[i] == 1 {
			mu = mu1
		}
		for j, v := range x {
			dev.SetVec(j, v-mu[j])
		}
		cov.SymRankOne(cov, 1, dev)
	}
	dof := float64(len(X) - 2)
	if dof <= 0 {
		dof = float64(len(X))
	}
	cov.ScaleSym(1/dof, cov)

	var trace float64
	for j := 0; j < p; j++ {
		trace += cov.At(j, j)
	}
	nu := trace / float64(p)
	if nu == 0 {
		nu = 1
	}
	alpha := math.Max(0, math.Min(1, l.Shrinkage))
	shrunk := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			v := (1 - alpha) * cov.At(i, j)
			if i == j {
				v += alpha * nu
			}
			shrunk.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(shrunk); !ok {
		// Retry with a small ridge before giving up.
		for j := 0; j < p; j++ {
			shrunk.SetSym(j, j, shrunk.At(j, j)+1e-6*nu)
		}
		if ok := chol.Factorize(shrunk); !ok {
			return newFitError(ErrCodeSingular, "pooled covariance is singular (shrinkage=%v)", alpha)
		}
	}

	diff := make([]float64, p)
	floats.SubTo(diff, mu1, mu0)
	var w mat.VecDense
	if err := chol.SolveVecTo(&w, mat.NewVecDense(p, diff)); err != nil {
		return newFitError(ErrCodeSingular, "discriminant solve: %v", err)
	}

	mid := make([]float64, p)
	floats.AddTo(mid, mu0, mu1)
	floats.Scale(0.5, mid)

	l.w = w.RawVector().Data
	l.b = -floats.Dot(l.w, mid) + math.Log(float64(n1)/float64(n0))
	return nil
}

func (l *LDA) Decision(x []float64) float64 {
	return floats.Dot(l.w, x) + l.b
}
