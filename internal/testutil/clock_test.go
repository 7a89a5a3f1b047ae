package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepClock_StartsAtEpoch(t *testing.T) {
	clock := NewStepClock(time.Second)
	assert.Equal(t, Epoch, clock.Now())
	assert.Equal(t, int64(1), clock.Reads())
}

func TestStepClock_AdvancesByStep(t *testing.T) {
	clock := NewStepClock(1500 * time.Millisecond)

	start := clock.Now()
	end := clock.Now()
	assert.Equal(t, 1500*time.Millisecond, end.Sub(start))
	assert.Equal(t, 3*time.Second, clock.Now().Sub(start))
}

func TestStepClock_Reset(t *testing.T) {
	clock := NewStepClock(time.Minute)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, int64(0), clock.Reads())
	assert.Equal(t, Epoch, clock.Now())
}

func TestStepClock_ConcurrentReadsAreDistinct(t *testing.T) {
	clock := NewStepClock(time.Millisecond)

	const goroutines = 50
	seen := make(chan time.Time, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- clock.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		unique[ts] = true
	}
	assert.Len(t, unique, goroutines)
	assert.Equal(t, int64(goroutines), clock.Reads())
}
