package options

import (
	"fmt"
)

// Options is the decoded, validated option set for one analysis.
type Options struct {
	Features string
	Day      string
	Task     string

	Clf       string
	C         float64
	Shrinkage float64
	MaxIter   int
	Scaler    string

	ScalerBL   string
	AvgMeanBL  bool
	AvgNoiseBL bool
	UnitVarBL  bool
	BinsBL     [2]float64

	InFold      string
	OutFold     string
	NOut        int
	NRepeats    int
	RandomState int64
	OuterScore  string
	NJobs       int

	AvgEpochs bool
	Epochs    []Epoch

	Confidence float64
	NBoots     int
	NShuffles  int

	Plot Plot
}

// Epoch is a named time window in seconds, [Start, End).
type Epoch struct {
	Name  string
	Start float64
	End   float64
}

// Plot holds figure settings.
type Plot struct {
	Duration float64
	Limit    float64
	VMin     float64
	VMax     float64
	Chance   float64
	Markers  []float64
	Ticks    []float64
	Ext      string
}

// FigureName returns the base name of the cross-temporal figure:
// features + "cross_temp_scores_" + task + "_" + day.
func (o *Options) FigureName() string {
	return o.Features + "cross_temp_scores_" + o.Task + "_" + o.Day
}

// Title returns the figure title: day and task.
func (o *Options) Title() string {
	return o.Day + " " + o.Task
}

// ToMap returns the options keyed by their schema field names. The map is
// used for run hashing and for persisting the options alongside results.
func (o *Options) ToMap() map[string]any {
	epochs := make([]any, len(o.Epochs))
	for i, e := range o.Epochs {
		epochs[i] = map[string]any{"name": e.Name, "start": e.Start, "end": e.End}
	}
	return map[string]any{
		"features":     o.Features,
		"day":          o.Day,
		"task":         o.Task,
		"clf":          o.Clf,
		"C":            o.C,
		"shrinkage":    o.Shrinkage,
		"max_iter":     o.MaxIter,
		"scaler":       o.Scaler,
		"scaler_BL":    o.ScalerBL,
		"avg_mean_BL":  o.AvgMeanBL,
		"avg_noise_BL": o.AvgNoiseBL,
		"unit_var_BL":  o.UnitVarBL,
		"bins_BL":      []float64{o.BinsBL[0], o.BinsBL[1]},
		"in_fold":      o.InFold,
		"out_fold":     o.OutFold,
		"n_out":        o.NOut,
		"n_repeats":    o.NRepeats,
		"random_state": o.RandomState,
		"outer_score":  o.OuterScore,
		"avg_epochs":   o.AvgEpochs,
		"epochs":       epochs,
		"confidence":   o.Confidence,
		"n_boots":      o.NBoots,
		"n_shuffles":   o.NShuffles,
	}
}

// checkRelations validates constraints that span several fields.
func (o *Options) checkRelations() error {
	if o.BinsBL[1] <= o.BinsBL[0] {
		return &OptionsError{Field: "bins_BL", Message: fmt.Sprintf("end %v must be after start %v", o.BinsBL[1], o.BinsBL[0])}
	}
	if o.Plot.VMax <= o.Plot.VMin {
		return &OptionsError{Field: "plot.vmax", Message: fmt.Sprintf("%v must be greater than plot.vmin %v", o.Plot.VMax, o.Plot.VMin)}
	}
	if o.Plot.Limit > o.Plot.Duration {
		return &OptionsError{Field: "plot.limit", Message: fmt.Sprintf("%v exceeds plot.duration %v", o.Plot.Limit, o.Plot.Duration)}
	}
	return nil
}
