package decode

import (
	"gonum.org/v1/gonum/floats"
)

// Centroid assigns a sample to the class with the nearest mean in Euclidean
// distance. The decision value is half the difference of squared distances.
type Centroid struct {
	w []float64
	b float64
}

func NewCentroid() *Centroid { return &Centroid{} }

func (c *Centroid) Clone() Classifier { return &Centroid{} }

func (c *Centroid) Fit(X [][]float64, y []int) error {
	if _, _, err := checkTrainingSet(X, y); err != nil {
		return err
	}
	mu0, mu1 := classMeans(X, y)
	c.w = make([]float64, len(mu0))
	floats.SubTo(c.w, mu1, mu0)
	c.b = -(floats.Dot(mu1, mu1) - floats.Dot(mu0, mu0)) / 2
	return nil
}

func (c *Centroid) Decision(x []float64) float64 {
	return floats.Dot(c.w, x) + c.b
}
