// Package stealth provides the randomized timing and selection used to make
// automated actions look less mechanical.
package stealth

import (
	"math/rand"
	"time"

	"github.com/nikshitha/linkedin-outreach/config"
	"github.com/nikshitha/linkedin-outreach/logger"
)

// SleepFunc suspends the caller for d
type SleepFunc func(d time.Duration)

// StealthManager hands out random pauses and random picks
type StealthManager struct {
	logger *logger.Logger
	rand   *rand.Rand
	sleep  SleepFunc
}

// Option customizes a StealthManager
type Option func(*StealthManager)

// WithSleep replaces time.Sleep, typically with a recorder in tests
func WithSleep(fn SleepFunc) Option {
	return func(s *StealthManager) { s.sleep = fn }
}

// WithSeed makes every random choice reproducible
func WithSeed(seed int64) Option {
	return func(s *StealthManager) { s.rand = rand.New(rand.NewSource(seed)) }
}

// NewStealthManager creates a new stealth manager
func NewStealthManager(log *logger.Logger, opts ...Option) *StealthManager {
	s := &StealthManager{
		logger: log.WithModule("stealth"),
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RandomDuration draws a duration uniformly from [lo, hi]
func (s *StealthManager) RandomDuration(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(s.rand.Int63n(int64(hi-lo)+1))
}

// Pause sleeps for a random duration within r and returns it
func (s *StealthManager) Pause(r config.DelayRange) time.Duration {
	d := s.RandomDuration(r.Bounds())
	s.logger.WithField("duration_ms", d.Milliseconds()).Debug("Pausing")
	s.sleep(d)
	return d
}

// Choose returns a uniformly random index in [0, n). n must be positive.
func (s *StealthManager) Choose(n int) int {
	return s.rand.Intn(n)
}
