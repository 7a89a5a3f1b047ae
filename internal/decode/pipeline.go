package decode

import "fmt"

// Pipeline scales features before handing them to a classifier.
type Pipeline struct {
	Scaler     Scaler
	Classifier Classifier
}

func (p *Pipeline) Clone() Classifier {
	return &Pipeline{Scaler: p.Scaler.Clone(), Classifier: p.Classifier.Clone()}
}

func (p *Pipeline) Fit(X [][]float64, y []int) error {
	p.Scaler.Fit(X)
	scaled := make([][]float64, len(X))
	for i, x := range X {
		scaled[i] = p.Scaler.Transform(x)
	}
	return p.Classifier.Fit(scaled, y)
}

func (p *Pipeline) Decision(x []float64) float64 {
	return p.Classifier.Decision(p.Scaler.Transform(x))
}

// Classifier names accepted by New.
const (
	ClfLogistic = "logistic"
	ClfLDA      = "lda"
	ClfCentroid = "centroid"
)

// Config selects and parameterizes the decoder built by New.
type Config struct {
	Clf       string
	C         float64
	Shrinkage float64
	MaxIter   int
	Scaler    string
}

// New builds an unfitted scaler and classifier pipeline.
func New(cfg Config) (Classifier, error) {
	scaler, err := NewScaler(cfg.Scaler)
	if err != nil {
		return nil, err
	}

	var clf Classifier
	switch cfg.Clf {
	case ClfLogistic, "":
		c := cfg.C
		if c <= 0 {
			return nil, fmt.Errorf("decode: logistic C must be positive, got %v", c)
		}
		clf = NewLogistic(c, cfg.MaxIter)
	case ClfLDA:
		clf = NewLDA(cfg.Shrinkage)
	case ClfCentroid:
		clf = NewCentroid()
	default:
		return nil, fmt.Errorf("decode: unknown classifier %q", cfg.Clf)
	}
	return &Pipeline{Scaler: scaler, Classifier: clf}, nil
}
