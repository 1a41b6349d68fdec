package reactor

import "time"

// Clock abstracts wall-clock access so that tests can exercise timer
// scheduling (and, notably, the wall-clock-skew detection in §4.3) without
// waiting on or manipulating the real system clock.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// realClock is the default Clock, backed by time.Now.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
