package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/crosstemp/internal/dataset"
)

// rampRecording has 1 neuron, 5 bins over [0, 4] s (bin times 0..4).
func rampRecording() *dataset.Recording {
	return &dataset.Recording{
		Name:     "ramp",
		Neurons:  1,
		Bins:     5,
		Duration: 4,
		Trials: []dataset.Trial{
			{Day: 1, X: [][]float64{{1, 3, 10, 10, 10}}},
			{Day: 1, X: [][]float64{{1, 3, 20, 20, 20}}},
			{Day: 2, X: [][]float64{{5, 5, 5, 5, 5}}},
		},
	}
}

func TestBaseline_StandardCentersAndScales(t *testing.T) {
	rec := rampRecording()
	out, err := Baseline(rec, BaselineOptions{
		Scaler: ScalerStandard, AvgMean: true, UnitVar: true, Window: [2]float64{0, 2},
	})
	require.NoError(t, err)

	// day 1 baseline values {1,3,1,3}: mean 2, population std 1
	assert.InDeltaSlice(t, []float64{-1, 1, 8, 8, 8}, out.Trials[0].X[0], 1e-12)
	assert.InDeltaSlice(t, []float64{-1, 1, 18, 18, 18}, out.Trials[1].X[0], 1e-12)
	// day 2 baseline has zero spread: centred only
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, out.Trials[2].X[0])
	// input untouched
	assert.Equal(t, []float64{1, 3, 10, 10, 10}, rec.Trials[0].X[0])
}

func TestBaseline_RobustUsesMedian(t *testing.T) {
	out, err := Baseline(rampRecording(), BaselineOptions{
		Scaler: ScalerRobust, AvgMean: true, Window: [2]float64{0, 2},
	})
	require.NoError(t, err)
	// interpolated median of {1,1,3,3} is 2
	assert.Equal(t, []float64{-1, 1, 8, 8, 8}, out.Trials[0].X[0])
}

func TestBaseline_RobustScalesByIQR(t *testing.T) {
	out, err := Baseline(rampRecording(), BaselineOptions{
		Scaler: ScalerRobust, AvgMean: true, UnitVar: true, Window: [2]float64{0, 2},
	})
	require.NoError(t, err)
	// {1,1,3,3}: quartiles 1 and 3, IQR 2
	assert.InDeltaSlice(t, []float64{-0.5, 0.5, 4, 4, 4}, out.Trials[0].X[0], 1e-12)
}

func TestBaseline_None(t *testing.T) {
	rec := rampRecording()
	out, err := Baseline(rec, BaselineOptions{Scaler: ScalerNone, AvgMean: true, UnitVar: true})
	require.NoError(t, err)
	assert.Equal(t, rec.Trials[1].X, out.Trials[1].X)
}

func TestBaseline_AvgNoise(t *testing.T) {
	out, err := Baseline(rampRecording(), BaselineOptions{Scaler: ScalerNone, AvgNoise: true})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, -5, -5, -5}, out.Trials[0].X[0])
	assert.Equal(t, []float64{0, 0, 5, 5, 5}, out.Trials[1].X[0])
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, out.Trials[2].X[0])
}

func TestBaseline_Errors(t *testing.T) {
	_, err := Baseline(rampRecording(), BaselineOptions{Scaler: "minmax"})
	assert.Error(t, err)

	_, err = Baseline(rampRecording(), BaselineOptions{Scaler: ScalerStandard, AvgMean: true, Window: [2]float64{10, 12}})
	assert.Error(t, err)
}

func TestAvgEpochs(t *testing.T) {
	rec := rampRecording()
	out, err := AvgEpochs(rec, []Epoch{
		{Name: "LATE", Start: 2, End: 5},
		{Name: "EARLY", Start: 0, End: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Bins)
	assert.Equal(t, []float64{1, 3.5}, out.BinTimes())
	assert.Equal(t, []float64{2, 10}, out.Trials[0].X[0])
	assert.Equal(t, []float64{2, 20}, out.Trials[1].X[0])
	require.NoError(t, out.Validate())
	assert.Equal(t, 5, rec.Bins)
}

func TestAvgEpochs_EmptyEpoch(t *testing.T) {
	_, err := AvgEpochs(rampRecording(), []Epoch{{Name: "GAP", Start: 1.2, End: 1.5}})
	assert.Error(t, err)

	_, err = AvgEpochs(rampRecording(), nil)
	assert.Error(t, err)
}
