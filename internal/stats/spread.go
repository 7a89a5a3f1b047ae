package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Standard returns the mean and population standard deviation of x.
func Standard(x []float64) (center, spread float64) {
	return stat.PopMeanStdDev(x, nil)
}

// Robust returns the median and the interquartile range of x, both from
// Percentile. x is not modified.
func Robust(x []float64) (center, spread float64) {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	return Percentile(sorted, 50), Percentile(sorted, 75) - Percentile(sorted, 25)
}
