package stats

import (
	"math/rand/v2"
)

// NewRand returns a deterministic PCG source seeded from seed and stream.
// Distinct streams give independent sequences for the same seed.
func NewRand(seed int64, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), stream))
}

// Resample draws n indices in [0, n) with replacement.
func Resample(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}

// StratifiedResample draws a bootstrap sample that keeps the label vector
// unchanged: position i receives a random index (with replacement) among
// the trials sharing label y[i]. Class sizes are therefore preserved.
func StratifiedResample(rng *rand.Rand, y []int) []int {
	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	idx := make([]int, len(y))
	for i, label := range y {
		members := byClass[label]
		idx[i] = members[rng.IntN(len(members))]
	}
	return idx
}

// Permute returns a shuffled copy of labels.
func Permute(rng *rand.Rand, labels []int) []int {
	out := make([]int, len(labels))
	copy(out, labels)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
