package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRecording builds a recording with one neuron and two bins per trial.
func newTestRecording(trials ...Trial) *Recording {
	for i := range trials {
		if trials[i].X == nil {
			trials[i].X = [][]float64{{float64(i), float64(i)}}
		}
	}
	return &Recording{Name: "test", Neurons: 1, Bins: 2, Duration: 1, Trials: trials}
}

func TestRecording_Validate(t *testing.T) {
	rec := newTestRecording(Trial{Day: 1}, Trial{Day: 2})
	require.NoError(t, rec.Validate())

	rec.Trials[1].X = [][]float64{{1}}
	assert.Error(t, rec.Validate())

	assert.ErrorIs(t, (&Recording{Neurons: 1, Bins: 1, Duration: 1}).Validate(), ErrEmptyRecording)
}

func TestRecording_DaysAndTasks(t *testing.T) {
	rec := newTestRecording(
		Trial{Day: 3, Task: "DualGo"},
		Trial{Day: 1, Task: "DPA"},
		Trial{Day: 3, Task: "DPA"},
	)
	assert.Equal(t, []int{1, 3}, rec.Days())
	assert.Equal(t, []string{"DPA", "DualGo"}, rec.Tasks())
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))
	assert.Nil(t, Linspace(0, 1, 0))

	x := Linspace(0, 14, 84)
	assert.Len(t, x, 84)
	assert.Equal(t, 14.0, x[83])
}

func TestRecording_BinRange(t *testing.T) {
	rec := &Recording{Bins: 11, Duration: 10}
	lo, hi := rec.BinRange(0, 2)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 2, hi)

	lo, hi = rec.BinRange(2.5, 4.5)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 5, hi)
}

func TestTrial_Label(t *testing.T) {
	tr := Trial{Sample: 1, Distractor: NoLabel, Choice: 0}

	got, err := tr.Label("sample")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = tr.Label("distractor")
	require.NoError(t, err)
	assert.Equal(t, NoLabel, got)

	_, err = tr.Label("odor")
	assert.ErrorIs(t, err, ErrUnknownFeatures)
}
