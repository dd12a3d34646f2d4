package data

import "time"

// TimeProvider abstracts the clock so repositories can be driven by a fixed
// time in tests.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider is the system clock.
type RealTimeProvider struct{}

func (*RealTimeProvider) Now() time.Time { return time.Now() }

// FixedTimeProvider always reports the same instant.
type FixedTimeProvider struct {
	fixed time.Time
}

// NewFixedTimeProvider returns a provider pinned to t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{fixed: t}
}

func (f *FixedTimeProvider) Now() time.Time { return f.fixed }
