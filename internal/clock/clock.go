// Package clock abstracts the time source used to stamp layers and sessions.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Func adapts a function to a Clock. Func(time.Now) is the system clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time {
	return f()
}

// System returns a Clock reading the wall clock in UTC.
func System() Clock {
	return Func(func() time.Time { return time.Now().UTC() })
}

// Stepper is a deterministic clock for tests. Each call to Now returns the
// current time and then advances it by Step, so consecutive events get
// distinct, ordered timestamps.
type Stepper struct {
	mu      sync.Mutex
	current time.Time
	Step    time.Duration
}

// NewStepper creates a Stepper starting at start.
func NewStepper(start time.Time, step time.Duration) *Stepper {
	return &Stepper{current: start, Step: step}
}

// Now returns the current time and advances by Step.
func (s *Stepper) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.current
	s.current = s.current.Add(s.Step)
	return t
}

// Peek returns the time the next call to Now will return.
func (s *Stepper) Peek() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
