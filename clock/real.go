package clock

import (
	"sync"
	"time"

	"github.com/lixenwraith/pomodoro/core"
)

// Real schedules callbacks on wall time, one goroutine per handle
type Real struct{}

// NewReal creates a wall-clock scheduler
func NewReal() *Real {
	return &Real{}
}

// realHandle closes stopChan once; the owning goroutine exits on the next select
type realHandle struct {
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func newRealHandle() *realHandle {
	return &realHandle{
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Stop signals the goroutine to exit without waiting for it, so it is safe to
// call from inside the callback itself
func (h *realHandle) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
	})
}

// Done is closed after the handle's goroutine has returned
func (h *realHandle) Done() <-chan struct{} {
	return h.done
}

// Every starts a ticker goroutine invoking fn each interval
func (r *Real) Every(interval time.Duration, fn func()) Handle {
	h := newRealHandle()
	core.Go(func() {
		defer close(h.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-h.stopChan:
				return
			case <-ticker.C:
				// Stop may race with a ready tick; prefer the stop signal
				select {
				case <-h.stopChan:
					return
				default:
				}
				fn()
			}
		}
	})
	return h
}

// After starts a timer goroutine invoking fn once
func (r *Real) After(delay time.Duration, fn func()) Handle {
	h := newRealHandle()
	core.Go(func() {
		defer close(h.done)

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-h.stopChan:
		case <-timer.C:
			select {
			case <-h.stopChan:
				return
			default:
			}
			fn()
		}
	})
	return h
}
