package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectionFixture() *Recording {
	return newTestRecording(
		Trial{Day: 1, Index: 0, Task: "DPA", Sample: 0, Distractor: NoLabel, Choice: 0},
		Trial{Day: 1, Index: 1, Task: "DPA", Sample: 1, Distractor: NoLabel, Choice: 1},
		Trial{Day: 1, Index: 2, Task: "DualGo", Sample: 0, Distractor: 1, Choice: 1},
		Trial{Day: 2, Index: 0, Task: "DPA", Sample: 1, Distractor: NoLabel, Choice: 1},
		Trial{Day: 2, Index: 1, Task: "DualGo", Sample: 0, Distractor: 0, Choice: 0},
		Trial{Day: 2, Index: 2, Task: "DualGo", Sample: 1, Distractor: 1, Choice: 0},
	)
}

func TestResolveDay(t *testing.T) {
	rec := selectionFixture()

	tests := []struct {
		day  string
		want []int
	}{
		{"first", []int{1}},
		{"LAST", []int{2}},
		{"all", []int{1, 2}},
		{"2", []int{2}},
	}
	for _, tt := range tests {
		got, err := ResolveDay(rec, tt.day)
		require.NoError(t, err, tt.day)
		assert.Equal(t, tt.want, got, tt.day)
	}

	_, err := ResolveDay(rec, "7")
	assert.ErrorIs(t, err, ErrUnknownDay)
	_, err = ResolveDay(rec, "middle")
	assert.ErrorIs(t, err, ErrUnknownDay)
}

func TestSelect_DayAndTask(t *testing.T) {
	rec := selectionFixture()

	sel, err := Select(rec, "sample", "first", "dpa")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, sel.Y)
	assert.Equal(t, []int{0, 1}, sel.Trials)

	n, neurons, bins := sel.Shape()
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, neurons)
	assert.Equal(t, 2, bins)
}

func TestSelect_AllTasksAllDays(t *testing.T) {
	sel, err := Select(selectionFixture(), "choice", "all", "all")
	require.NoError(t, err)
	assert.Len(t, sel.Y, 6)
}

func TestSelect_DropsUnlabelledTrials(t *testing.T) {
	sel, err := Select(selectionFixture(), "distractor", "all", "all")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 5}, sel.Trials)
	assert.Equal(t, []int{1, 0, 1}, sel.Y)
}

func TestSelect_Errors(t *testing.T) {
	rec := selectionFixture()

	_, err := Select(rec, "sample", "first", "DualNoGo")
	assert.ErrorIs(t, err, ErrSingleClass)

	_, err = Select(rec, "distractor", "first", "DualGo")
	assert.ErrorIs(t, err, ErrSingleClass)

	_, err = Select(rec, "odor", "first", "DPA")
	assert.ErrorIs(t, err, ErrUnknownFeatures)

	_, err = Select(rec, "sample", "9", "DPA")
	assert.ErrorIs(t, err, ErrUnknownDay)
}
