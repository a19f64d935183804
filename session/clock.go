package session

import "time"

// Timer is a scheduled function that can be cancelled.
type Timer interface {
	// Stop prevents the function from running. It reports whether the call stopped it.
	Stop() bool
}

// Clock abstracts scheduling for deterministic testing.
type Clock interface {
	// AfterFunc runs f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules with the runtime timer.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
