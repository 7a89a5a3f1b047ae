package stats

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResample_Range(t *testing.T) {
	idx := Resample(NewRand(1, 0), 50)
	assert.Len(t, idx, 50)
	for _, i := range idx {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 50)
	}
}

func TestStratifiedResample_KeepsClasses(t *testing.T) {
	y := []int{0, 0, 0, 1, 1, 0, 1}
	idx := StratifiedResample(NewRand(3, 0), y)

	assert.Len(t, idx, len(y))
	for i, j := range idx {
		assert.Equal(t, y[i], y[j], "position %d drew trial %d from another class", i, j)
	}
}

func TestPermute_IsPermutation(t *testing.T) {
	labels := []int{0, 0, 0, 1, 1, 1, 1}
	got := Permute(NewRand(5, 0), labels)

	assert.Equal(t, []int{0, 0, 0, 1, 1, 1, 1}, labels, "input must not change")
	sorted := append([]int(nil), got...)
	sort.Ints(sorted)
	assert.Equal(t, labels, sorted)
}

func TestNewRand_Deterministic(t *testing.T) {
	a := Resample(NewRand(42, 9), 20)
	b := Resample(NewRand(42, 9), 20)
	c := Resample(NewRand(42, 10), 20)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
