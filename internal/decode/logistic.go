package decode

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Logistic is L2-regularized logistic regression fitted by Newton's method.
// The objective is C times the summed log-loss plus half the squared norm of
// the weights; the intercept is not penalized.
type Logistic struct {
	C       float64
	MaxIter int
	Tol     float64

	w []float64
	b float64
}

// NewLogistic returns a logistic regression with inverse regularization c.
func NewLogistic(c float64, maxIter int) *Logistic {
	return &Logistic{C: c, MaxIter: maxIter, Tol: 1e-6}
}

func (l *Logistic) Clone() Classifier {
	return &Logistic{C: l.C, MaxIter: l.MaxIter, Tol: l.Tol}
}

func (l *Logistic) Fit(X [][]float64, y []int) error {
	if _, _, err := checkTrainingSet(X, y); err != nil {
		return err
	}
	p := len(X[0])
	d := p + 1

	// beta[:p] are the weights, beta[p] the intercept.
	beta := make([]float64, d)
	grad := make([]float64, d)
	xa := mat.NewVecDense(d, nil)
	maxIter := l.MaxIter
	if maxIter <= 0 {
		maxIter = 100
	}
	invC := 1 / l.C

	for iter := 0; iter < maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		hess := mat.NewSymDense(d, nil)
		for i, x := range X {
			mu := sigmoid(floats.Dot(beta[:p], x) + beta[p])
			r := mu - float64(y[i])
			for j, v := range x {
				grad[j] += r * v
				xa.SetVec(j, v)
			}
			grad[p] += r
			xa.SetVec(p, 1)
			hess.SymRankOne(hess, math.Max(mu*(1-mu), 1e-10), xa)
		}
		for j := 0; j < p; j++ {
			grad[j] += beta[j] * invC
			hess.SetSym(j, j, hess.At(j, j)+invC)
		}
		hess.SetSym(p, p, hess.At(p, p)+1e-8)

		var chol mat.Cholesky
		if ok := chol.Factorize(hess); !ok {
			return newFitError(ErrCodeSingular, "logistic Hessian is not positive definite at iteration %d", iter)
		}
		var step mat.VecDense
		if err := chol.SolveVecTo(&step, mat.NewVecDense(d, grad)); err != nil {
			return newFitError(ErrCodeSingular, "logistic Newton step: %v", err)
		}
		floats.Sub(beta, step.RawVector().Data)
		if floats.Norm(step.RawVector().Data, math.Inf(1)) < l.Tol {
			break
		}
	}

	l.w = beta[:p]
	l.b = beta[p]
	return nil
}

func (l *Logistic) Decision(x []float64) float64 {
	return floats.Dot(l.w, x) + l.b
}
