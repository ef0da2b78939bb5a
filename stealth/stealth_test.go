// Package stealth - Tests for randomized pacing
package stealth

import (
	"testing"
	"time"

	"github.com/nikshitha/linkedin-outreach/config"
	"github.com/nikshitha/linkedin-outreach/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(slept *[]time.Duration) *StealthManager {
	return NewStealthManager(logger.Nop(),
		WithSeed(42),
		WithSleep(func(d time.Duration) { *slept = append(*slept, d) }),
	)
}

func TestNewStealthManager(t *testing.T) {
	sm := NewStealthManager(logger.Nop())
	require.NotNil(t, sm)
	assert.NotNil(t, sm.rand)
	assert.NotNil(t, sm.sleep)
}

func TestPauseWithinBounds(t *testing.T) {
	var slept []time.Duration
	sm := newTestManager(&slept)

	ranges := []config.DelayRange{
		{Min: 1.5, Max: 3.5},
		{Min: 2, Max: 5},
	}
	for _, r := range ranges {
		lo, hi := r.Bounds()
		for i := 0; i < 500; i++ {
			d := sm.Pause(r)
			assert.GreaterOrEqual(t, d, lo)
			assert.LessOrEqual(t, d, hi)
		}
	}

	assert.Len(t, slept, 1000)
}

func TestPauseSleepsReturnedDuration(t *testing.T) {
	var slept []time.Duration
	sm := newTestManager(&slept)

	d := sm.Pause(config.DelayRange{Min: 1, Max: 2})
	require.Len(t, slept, 1)
	assert.Equal(t, d, slept[0])
}

func TestRandomDurationDegenerateRange(t *testing.T) {
	sm := NewStealthManager(logger.Nop(), WithSeed(1))

	assert.Equal(t, time.Second, sm.RandomDuration(time.Second, time.Second))
	assert.Equal(t, 2*time.Second, sm.RandomDuration(2*time.Second, time.Second))
}

func TestRandomDelayRealSleep(t *testing.T) {
	sm := NewStealthManager(logger.Nop())

	start := time.Now()
	sm.Pause(config.DelayRange{Min: 0.1, Max: 0.2})
	elapsed := time.Since(start)

	if elapsed < 100*time.Millisecond {
		t.Error("Delay should be at least 100ms")
	}
}

func TestChooseCoversAllIndexes(t *testing.T) {
	sm := NewStealthManager(logger.Nop(), WithSeed(7))

	seen := make(map[int]int)
	for i := 0; i < 1000; i++ {
		idx := sm.Choose(5)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 5)
		seen[idx]++
	}

	// uniform pick over 5 should hit every index
	assert.Len(t, seen, 5)
}

func TestSeedIsReproducible(t *testing.T) {
	a := NewStealthManager(logger.Nop(), WithSeed(99))
	b := NewStealthManager(logger.Nop(), WithSeed(99))

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Choose(10), b.Choose(10))
	}
}
