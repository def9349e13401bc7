package data

import "time"

// TimeProvider abstracts time.Now so repositories can be tested with a fixed clock.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider returns the actual current time.
type RealTimeProvider struct{}

// Now returns the current time.
func (RealTimeProvider) Now() time.Time { return time.Now() }

// FixedTimeProvider always returns the same time (for tests).
type FixedTimeProvider struct {
	Time time.Time
}

// Now returns the fixed time.
func (f FixedTimeProvider) Now() time.Time { return f.Time }
