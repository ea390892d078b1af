// Package notify turns the countdown expiry into a sound and a user-visible alert.
package notify

import (
	"log"
	"sync"
	"time"

	"github.com/lixenwraith/pomodoro/clock"
	"github.com/lixenwraith/pomodoro/constants"
	"github.com/lixenwraith/pomodoro/timer"
)

// Player plays the alarm sound
type Player interface {
	PlayAlarm()
}

// Alerter shows a message to the user
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to Alerter
type AlerterFunc func(message string)

// Alert calls f(message)
func (f AlerterFunc) Alert(message string) { f(message) }

// Alarm starts the sound immediately and shows the alert after a delay
type Alarm struct {
	sched   clock.Scheduler
	player  Player
	alerter Alerter
	delay   time.Duration

	mu      sync.Mutex
	pending clock.Handle
	closed  bool
}

// NewAlarm creates an expiry notifier; player and alerter may be nil
func NewAlarm(sched clock.Scheduler, player Player, alerter Alerter, delay time.Duration) *Alarm {
	if delay < 0 {
		delay = constants.AlertDelay
	}
	return &Alarm{
		sched:   sched,
		player:  player,
		alerter: alerter,
		delay:   delay,
	}
}

// Expired implements timer.Notifier
func (a *Alarm) Expired(ev timer.Expiry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	log.Printf("notify: %s (after %ds)", ev.Message, ev.Configured)

	if a.player != nil {
		a.player.PlayAlarm()
	}
	if a.alerter == nil {
		return
	}

	// A second expiry before the first alert fired replaces it
	if a.pending != nil {
		a.pending.Stop()
	}
	msg := ev.Message
	a.pending = a.sched.After(a.delay, func() {
		a.mu.Lock()
		closed := a.closed
		a.pending = nil
		a.mu.Unlock()
		if !closed {
			a.alerter.Alert(msg)
		}
	})
}

// Close cancels an alert not yet shown; later expiries are ignored
func (a *Alarm) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	if a.pending != nil {
		a.pending.Stop()
		a.pending = nil
	}
}

// Multi fans an expiry out to several notifiers in order
type Multi []timer.Notifier

// Expired forwards ev to every non-nil notifier
func (m Multi) Expired(ev timer.Expiry) {
	for _, n := range m {
		if n != nil {
			n.Expired(ev)
		}
	}
}
