package app

import "time"

// Clock abstracts wall-clock time so the round loop can be driven in tests
// without real waits
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

// NewSystemClock returns a Clock backed by the real wall clock
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
