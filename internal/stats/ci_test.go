package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestComputeCI_Example(t *testing.T) {
	scores := mat.NewDense(3, 2, []float64{
		0.5, 0.6,
		0.7, 0.8,
		0.6, 0.7,
	})

	ci, err := ComputeCI(scores, 0.95)
	require.NoError(t, err)

	r, c := ci.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)

	means := ColumnMeans(scores)
	assert.InDelta(t, 0.6, means[0], 1e-12)
	assert.InDelta(t, 0.7, means[1], 1e-12)

	// sorted column 0: 0.5 0.6 0.7; rank(2.5%) = 0.05 -> 0.505; rank(97.5%) = 1.95 -> 0.695
	assert.InDelta(t, 0.6-0.505, ci.At(0, LowerCol), 1e-9)
	assert.InDelta(t, 0.695-0.6, ci.At(0, UpperCol), 1e-9)
	for i := 0; i < r; i++ {
		assert.GreaterOrEqual(t, ci.At(i, LowerCol), 0.0)
		assert.GreaterOrEqual(t, ci.At(i, UpperCol), 0.0)
	}
}

func TestComputeCI_ConstantColumn(t *testing.T) {
	scores := mat.NewDense(5, 1, []float64{0.5, 0.5, 0.5, 0.5, 0.5})

	ci, err := ComputeCI(scores, 0.95)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, ci.RawRowView(0))
}

func TestComputeCI_IdenticalRowsAnyConfidence(t *testing.T) {
	row := []float64{0.51, 0.73, 0.1, 0.999}
	rows := [][]float64{row, row, row, row}

	for _, conf := range []float64{0.01, 0.5, 0.9, 0.95, 0.999} {
		scores, err := DenseFromRows(rows)
		require.NoError(t, err)
		ci, err := ComputeCI(scores, conf)
		require.NoError(t, err)
		r, _ := ci.Dims()
		require.Equal(t, len(row), r)
		for i := 0; i < r; i++ {
			assert.Zero(t, ci.At(i, LowerCol), "conf=%v pos=%d", conf, i)
			assert.Zero(t, ci.At(i, UpperCol), "conf=%v pos=%d", conf, i)
		}
	}
}

func TestComputeCI_ShapeAndNonNegative(t *testing.T) {
	rng := NewRand(7, 1)
	for trial := 0; trial < 50; trial++ {
		rows := 2 + rng.IntN(20)
		cols := 1 + rng.IntN(12)
		data := make([]float64, rows*cols)
		for i := range data {
			data[i] = rng.Float64()
		}

		ci, err := ComputeCI(mat.NewDense(rows, cols, data), 0.9)
		require.NoError(t, err)

		r, c := ci.Dims()
		assert.Equal(t, cols, r)
		assert.Equal(t, 2, c)
		for i := 0; i < r; i++ {
			assert.GreaterOrEqual(t, ci.At(i, LowerCol), 0.0)
			assert.GreaterOrEqual(t, ci.At(i, UpperCol), 0.0)
		}
	}
}

func TestComputeCI_MonotoneInConfidence(t *testing.T) {
	rng := NewRand(11, 2)
	data := make([]float64, 30*4)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	scores := mat.NewDense(30, 4, data)

	levels := []float64{0.1, 0.5, 0.8, 0.9, 0.95, 0.99}
	prev, err := ComputeCI(scores, levels[0])
	require.NoError(t, err)
	for _, conf := range levels[1:] {
		cur, err := ComputeCI(scores, conf)
		require.NoError(t, err)
		for i := 0; i < 4; i++ {
			assert.GreaterOrEqual(t, cur.At(i, LowerCol), prev.At(i, LowerCol), "conf=%v pos=%d", conf, i)
			assert.GreaterOrEqual(t, cur.At(i, UpperCol), prev.At(i, UpperCol), "conf=%v pos=%d", conf, i)
		}
		prev = cur
	}
}

func TestComputeCI_SmallSampleExtremeConfidence(t *testing.T) {
	scores := mat.NewDense(2, 1, []float64{0.4, 0.6})

	ci, err := ComputeCI(scores, 0.999999)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, ci.At(0, LowerCol), 1e-5)
	assert.InDelta(t, 0.1, ci.At(0, UpperCol), 1e-5)
}

func TestComputeCI_SkewedSampleClampsToZero(t *testing.T) {
	// Nine equal values and one low outlier: the 5th percentile sits above the mean.
	data := []float64{0, 10, 10, 10, 10, 10, 10, 10, 10, 10}
	scores := mat.NewDense(len(data), 1, data)

	ci, err := ComputeCI(scores, 0.1)
	require.NoError(t, err)
	assert.Zero(t, ci.At(0, LowerCol))
	assert.Greater(t, ci.At(0, UpperCol), 0.0)
}

func TestComputeCI_DoesNotMutateInput(t *testing.T) {
	data := []float64{0.9, 0.1, 0.5, 0.3}
	scores := mat.NewDense(4, 1, append([]float64(nil), data...))

	_, err := ComputeCI(scores, 0.95)
	require.NoError(t, err)
	assert.Equal(t, data, scores.RawMatrix().Data)
}

func TestComputeCI_Errors(t *testing.T) {
	tests := []struct {
		name   string
		scores mat.Matrix
		conf   float64
		want   error
	}{
		{"nil", nil, 0.95, ErrEmptyScores},
		{"single repeat", mat.NewDense(1, 3, []float64{1, 2, 3}), 0.95, ErrTooFewRepeats},
		{"zero confidence", mat.NewDense(2, 1, []float64{1, 2}), 0, ErrInvalidConfidence},
		{"unit confidence", mat.NewDense(2, 1, []float64{1, 2}), 1, ErrInvalidConfidence},
		{"negative confidence", mat.NewDense(2, 1, []float64{1, 2}), -0.5, ErrInvalidConfidence},
		{"nan confidence", mat.NewDense(2, 1, []float64{1, 2}), math.NaN(), ErrInvalidConfidence},
		{"nan score", mat.NewDense(3, 2, []float64{0.5, 0.6, math.NaN(), 0.7, 0.6, 0.8}), 0.95, ErrNonFinite},
		{"infinite score", mat.NewDense(2, 1, []float64{0.5, math.Inf(1)}), 0.95, ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeCI(tt.scores, tt.conf)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDenseFromRows_Ragged(t *testing.T) {
	_, err := DenseFromRows([][]float64{{1, 2}, {3}})
	assert.Error(t, err)

	_, err = DenseFromRows(nil)
	assert.ErrorIs(t, err, ErrEmptyScores)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{25, 2},
		{50, 3},
		{62.5, 3.5},
		{100, 5},
		{-5, 1},
		{150, 5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Percentile(sorted, tt.p), 1e-12, "p=%v", tt.p)
	}

	assert.True(t, math.IsNaN(Percentile(nil, 50)))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 90))
}
