package options

import (
	"cuelang.org/go/cue"
)

// Compile decodes a validated #Options value.
func Compile(v cue.Value) (*Options, error) {
	var (
		o   Options
		err error
	)
	str := func(path string, dst *string) {
		if err == nil {
			*dst, err = lookupString(v, path)
		}
	}
	num := func(path string, dst *float64) {
		if err == nil {
			*dst, err = lookupFloat(v, path)
		}
	}
	integer := func(path string, dst *int) {
		if err == nil {
			var n int64
			n, err = lookupInt(v, path)
			*dst = int(n)
		}
	}
	boolean := func(path string, dst *bool) {
		if err == nil {
			*dst, err = lookupBool(v, path)
		}
	}
	floats := func(path string, dst *[]float64) {
		if err == nil {
			*dst, err = lookupFloats(v, path)
		}
	}

	str("features", &o.Features)
	str("day", &o.Day)
	str("task", &o.Task)

	str("clf", &o.Clf)
	num("C", &o.C)
	num("shrinkage", &o.Shrinkage)
	integer("max_iter", &o.MaxIter)
	str("scaler", &o.Scaler)

	str("scaler_BL", &o.ScalerBL)
	boolean("avg_mean_BL", &o.AvgMeanBL)
	boolean("avg_noise_BL", &o.AvgNoiseBL)
	boolean("unit_var_BL", &o.UnitVarBL)
	var bins []float64
	floats("bins_BL", &bins)
	if err == nil {
		if len(bins) != 2 {
			return nil, fieldError(v, "bins_BL", "must hold exactly two values")
		}
		o.BinsBL = [2]float64{bins[0], bins[1]}
	}

	str("in_fold", &o.InFold)
	str("out_fold", &o.OutFold)
	integer("n_out", &o.NOut)
	integer("n_repeats", &o.NRepeats)
	if err == nil {
		o.RandomState, err = lookupInt(v, "random_state")
	}
	str("outer_score", &o.OuterScore)
	integer("n_jobs", &o.NJobs)

	boolean("avg_epochs", &o.AvgEpochs)
	if err == nil {
		o.Epochs, err = lookupEpochs(v, "epochs")
	}

	num("confidence", &o.Confidence)
	integer("n_boots", &o.NBoots)
	integer("n_shuffles", &o.NShuffles)

	num("plot.duration", &o.Plot.Duration)
	num("plot.limit", &o.Plot.Limit)
	num("plot.vmin", &o.Plot.VMin)
	num("plot.vmax", &o.Plot.VMax)
	num("plot.chance", &o.Plot.Chance)
	floats("plot.markers", &o.Plot.Markers)
	floats("plot.ticks", &o.Plot.Ticks)
	str("plot.ext", &o.Plot.Ext)

	if err != nil {
		return nil, err
	}
	return &o, nil
}

// field resolves path to its default (if any) and reports a missing field.
func field(v cue.Value, path string) (cue.Value, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return f, fieldError(v, path, "is required")
	}
	f, _ = f.Default()
	return f, nil
}

func lookupString(v cue.Value, path string) (string, error) {
	f, err := field(v, path)
	if err != nil {
		return "", err
	}
	s, err := f.String()
	if err != nil {
		return "", wrapFieldError(f, path, err)
	}
	return s, nil
}

func lookupFloat(v cue.Value, path string) (float64, error) {
	f, err := field(v, path)
	if err != nil {
		return 0, err
	}
	x, err := f.Float64()
	if err != nil {
		return 0, wrapFieldError(f, path, err)
	}
	return x, nil
}

func lookupInt(v cue.Value, path string) (int64, error) {
	f, err := field(v, path)
	if err != nil {
		return 0, err
	}
	n, err := f.Int64()
	if err != nil {
		return 0, wrapFieldError(f, path, err)
	}
	return n, nil
}

func lookupBool(v cue.Value, path string) (bool, error) {
	f, err := field(v, path)
	if err != nil {
		return false, err
	}
	b, err := f.Bool()
	if err != nil {
		return false, wrapFieldError(f, path, err)
	}
	return b, nil
}

func lookupFloats(v cue.Value, path string) ([]float64, error) {
	f, err := field(v, path)
	if err != nil {
		return nil, err
	}
	iter, err := f.List()
	if err != nil {
		return nil, wrapFieldError(f, path, err)
	}
	var out []float64
	for iter.Next() {
		x, err := iter.Value().Float64()
		if err != nil {
			return nil, wrapFieldError(iter.Value(), path, err)
		}
		out = append(out, x)
	}
	return out, nil
}

func lookupEpochs(v cue.Value, path string) ([]Epoch, error) {
	f, err := field(v, path)
	if err != nil {
		return nil, err
	}
	iter, err := f.List()
	if err != nil {
		return nil, wrapFieldError(f, path, err)
	}
	var out []Epoch
	for iter.Next() {
		ev := iter.Value()
		var e Epoch
		if e.Name, err = lookupString(ev, "name"); err != nil {
			return nil, err
		}
		if e.Start, err = lookupFloat(ev, "start"); err != nil {
			return nil, err
		}
		if e.End, err = lookupFloat(ev, "end"); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
