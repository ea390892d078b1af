// Package clock schedules periodic and one-shot callbacks.
//
// Scheduler is the seam between the countdown logic and wall time: Real drives
// callbacks from time.Ticker and time.Timer goroutines, Manual lets tests
// advance virtual time and fire ticks deterministically.
package clock

import "time"

// Handle cancels a scheduled callback. Stop is idempotent and never blocks.
type Handle interface {
	Stop()
}

// Scheduler registers callbacks against a time source
type Scheduler interface {
	// Every invokes fn once per interval until the returned handle is stopped
	Every(interval time.Duration, fn func()) Handle
	// After invokes fn once after delay unless the returned handle is stopped first
	After(delay time.Duration, fn func()) Handle
}
