package analysis

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/crosstemp/internal/figure"
	"github.com/roach88/crosstemp/internal/options"
	"github.com/roach88/crosstemp/internal/store"
)

// Kind identifies an analysis.
type Kind = store.RunKind

const (
	KindCrossTemporal = store.KindCrossTemporal
	KindTimeResolved  = store.KindTimeResolved
)

// Result is the outcome of one analysis.
type Result struct {
	Kind    Kind
	Options *options.Options

	// Shape is (trials, neurons, bins) of the decoded selection.
	Shape []int
	// Times holds the time of every bin, in seconds.
	Times []float64

	// Scores is (train bins x test bins) for cross-temporal runs and
	// (1 x bins) for time-resolved runs.
	Scores *mat.Dense

	// Boots and Shuffles are (repeats x bins); CI and NullCI are their
	// (bins x 2) lower/upper margins. All are nil when not computed.
	Boots    *mat.Dense
	CI       *mat.Dense
	Shuffles *mat.Dense
	NullCI   *mat.Dense

	Hash    string
	Elapsed time.Duration
}

// Diagonal returns the score of every bin decoded on itself.
func (r *Result) Diagonal() []float64 {
	return store.Diagonal(r.Kind, r.Scores)
}

// FigureName returns the base file name of the result's figure.
func (r *Result) FigureName() string {
	if r.Kind == KindTimeResolved {
		o := r.Options
		return o.Features + "time_scores_" + o.Task + "_" + o.Day
	}
	return r.Options.FigureName()
}

// Style returns the figure style configured by the options.
func Style(p options.Plot) figure.Style {
	style := figure.DefaultStyle()
	style.Duration = p.Duration
	style.Limit = p.Limit
	style.VMin = p.VMin
	style.VMax = p.VMax
	style.Chance = p.Chance
	style.Markers = p.Markers
	style.Ticks = p.Ticks
	return style
}

// Figure renders the result: a heat map for cross-temporal runs, a time
// course with the bootstrap band for time-resolved runs. Epoch-averaged
// heat maps place each cell at its epoch's time.
func (r *Result) Figure() (*figure.Figure, error) {
	style := Style(r.Options.Plot)
	if r.Kind == KindTimeResolved {
		var ci mat.Matrix
		if r.CI != nil {
			ci = r.CI
		}
		return figure.TimeCourse(r.Times, r.Diagonal(), ci, style, r.Options.Title())
	}
	var times []float64
	if r.Options.AvgEpochs {
		times = r.Times
	}
	return figure.Matrix(r.Scores, times, style, r.Options.Title())
}

// Run converts the result into a persisted run record.
func (r *Result) Run(id, figurePath string) store.Run {
	matrices := map[string]*mat.Dense{store.MatrixScores: r.Scores}
	for name, m := range map[string]*mat.Dense{
		store.MatrixBoots:    r.Boots,
		store.MatrixCI:       r.CI,
		store.MatrixShuffles: r.Shuffles,
		store.MatrixNullCI:   r.NullCI,
	} {
		if m != nil {
			matrices[name] = m
		}
	}
	return store.Run{
		ID:       id,
		Hash:     r.Hash,
		Kind:     r.Kind,
		Features: r.Options.Features,
		Day:      r.Options.Day,
		Task:     r.Options.Task,
		Options:  r.Options.ToMap(),
		Shape:    r.Shape,
		Figure:   figurePath,
		Elapsed:  r.Elapsed,
		Matrices: matrices,
	}
}

// ShapeLine formats the decoded data shape as "X (trials, neurons, bins) y (trials,)".
func ShapeLine(shape []int) string {
	if len(shape) != 3 {
		return fmt.Sprintf("X %v", shape)
	}
	return fmt.Sprintf("X (%d, %d, %d) y (%d,)", shape[0], shape[1], shape[2], shape[0])
}

// FormatElapsed formats d as H:MM:SS with microseconds when non-zero,
// e.g. "0:01:02.500000".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	micros := d.Microseconds()
	secs := micros / 1_000_000
	frac := micros % 1_000_000

	days := secs / 86400
	secs %= 86400
	s := fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	if frac != 0 {
		s += fmt.Sprintf(".%06d", frac)
	}
	switch {
	case days == 1:
		s = "1 day, " + s
	case days > 1:
		s = fmt.Sprintf("%d days, %s", days, s)
	}
	return s
}

// TimingLine formats the console timing line "--- H:MM:SS.ffffff ---".
func TimingLine(d time.Duration) string {
	return "--- " + FormatElapsed(d) + " ---"
}
