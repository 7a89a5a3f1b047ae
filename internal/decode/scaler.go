package decode

import (
	"fmt"
	"math"

	"github.com/roach88/crosstemp/internal/stats"
)

// Scaler names accepted by NewScaler.
const (
	ScaleStandard = "standard"
	ScaleRobust   = "robust"
	ScaleCenter   = "center"
	ScaleNone     = "none"
)

// Scaler is a per-feature affine transform fitted on training samples.
type Scaler interface {
	Fit(X [][]float64)
	Transform(x []float64) []float64
	Clone() Scaler
}

// NewScaler returns the scaler registered under name.
func NewScaler(name string) (Scaler, error) {
	switch name {
	case ScaleStandard:
		return &affineScaler{stats: stats.Standard, scaled: true}, nil
	case ScaleRobust:
		return &affineScaler{stats: stats.Robust, scaled: true}, nil
	case ScaleCenter:
		return &affineScaler{stats: stats.Standard}, nil
	case ScaleNone, "":
		return identityScaler{}, nil
	}
	return nil, fmt.Errorf("decode: unknown scaler %q", name)
}

type identityScaler struct{}

func (identityScaler) Fit([][]float64)                 {}
func (identityScaler) Transform(x []float64) []float64 { return x }
func (identityScaler) Clone() Scaler                   { return identityScaler{} }

// affineScaler computes (x - center) / spread per feature, with centre and
// spread from stats. Unscaled variants and zero spreads keep a scale of 1.
type affineScaler struct {
	stats  func(col []float64) (center, spread float64)
	scaled bool

	loc   []float64
	scale []float64
}

func (s *affineScaler) Clone() Scaler {
	return &affineScaler{stats: s.stats, scaled: s.scaled}
}

func (s *affineScaler) Fit(X [][]float64) {
	if len(X) == 0 {
		s.loc, s.scale = nil, nil
		return
	}
	p := len(X[0])
	s.loc = make([]float64, p)
	s.scale = make([]float64, p)
	col := make([]float64, len(X))
	for j := 0; j < p; j++ {
		for i, x := range X {
			col[i] = x[j]
		}
		center, spread := s.stats(col)
		s.loc[j] = center
		s.scale[j] = 1
		if s.scaled && spread > 0 && !math.IsNaN(spread) {
			s.scale[j] = spread
		}
	}
}

func (s *affineScaler) Transform(x []float64) []float64 {
	if s.loc == nil {
		return x
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.loc[j]) / s.scale[j]
	}
	return out
}
