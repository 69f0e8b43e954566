// Package clock provides the scheduling primitives the page drivers run on.
//
// Drivers never call the time package directly. They ask a Scheduler for
// delayed callbacks, which lets the web server confine them to a Loop,
// lets the terminal preview pump them from bubbletea, and lets tests
// fast-forward them with a Fake.
package clock

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports false when the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler hands out delayed callbacks.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules callbacks with time.AfterFunc. Callbacks run on their own
// goroutine, so Real is only suitable for code that does its own locking.
type Real struct{}

// Now returns the wall clock time.
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc runs f after d on a new goroutine.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
