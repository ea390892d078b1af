// Package timer implements the countdown state machine.
//
// An Engine owns one TimerState and moves it through
//
//	Idle --Start--> Running --tick reaching 0--> Expired
//	Running --Stop--> Idle
//	Expired --Configure--> Idle
//
// Ticks come from a clock.Scheduler handle created by Start. Exactly one
// periodic handle exists while Running; Stop and expiry cancel that handle and
// ticks delivered by an earlier handle are discarded. State is guarded by a
// single mutex and events are emitted after it is released, so sinks and
// observers may query the engine. A second mutex is held from each state
// change until its events are delivered, so events arrive in state order;
// sinks and observers must not call Configure, Start, Stop or Toggle.
package timer

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/lixenwraith/pomodoro/clock"
	"github.com/lixenwraith/pomodoro/constants"
)

// Defaults applied by New
const (
	DefaultMessage      = constants.ExpiryMessage
	DefaultTickInterval = constants.TickInterval
)

// Engine is the countdown state machine
type Engine struct {
	// emitMu serialises mutations with their emissions; taken before mu
	emitMu sync.Mutex

	mu    sync.Mutex
	state TimerState

	sched    clock.Scheduler
	interval time.Duration
	message  string

	// handle is the periodic tick registered by Start; gen tags it so a tick
	// from a cancelled handle is recognised and dropped
	handle clock.Handle
	gen    uint64

	sink      Sink
	notifier  Notifier
	observers []PhaseObserver
}

// Option configures an Engine
type Option func(*Engine)

// WithSink sets the presentation sink
func WithSink(s Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithNotifier sets the expiry notifier
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithObserver adds a phase observer
func WithObserver(o PhaseObserver) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// WithTickInterval overrides the one-second tick
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithMessage overrides the expiry message
func WithMessage(msg string) Option {
	return func(e *Engine) {
		if msg != "" {
			e.message = msg
		}
	}
}

// New creates an Idle engine with nothing configured.
// sched is required; New panics if it is nil.
func New(sched clock.Scheduler, opts ...Option) *Engine {
	if sched == nil {
		panic("timer: New called with nil scheduler")
	}
	e := &Engine{
		state:    newState(0),
		sched:    sched,
		interval: DefaultTickInterval,
		message:  DefaultMessage,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Configure sets a new duration and returns to Idle.
// Rejected while Running; the previous state is kept on any error.
func (e *Engine) Configure(minutes, seconds int) error {
	if reason := checkRange(minutes, seconds); reason != "" {
		return &InvalidDurationError{
			Minutes: strconv.Itoa(minutes),
			Seconds: strconv.Itoa(seconds),
			Reason:  reason,
		}
	}

	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	from := e.state.Phase
	if from == PhaseRunning {
		e.mu.Unlock()
		return stateError("configure", from)
	}
	e.state = newState(minutes*60 + seconds)
	frame := e.state.frame()
	e.mu.Unlock()

	if from != PhaseIdle {
		e.emitPhase(from, PhaseIdle)
	}
	e.emitFrame(frame)
	return nil
}

// ConfigureText parses minute and second input text and configures the engine
func (e *Engine) ConfigureText(minutes, seconds string) error {
	m, s, err := ParseDuration(minutes, seconds)
	if err != nil {
		return err
	}
	return e.Configure(m, s)
}

// Start begins counting from the current remaining time.
// Only valid while Idle with time left; otherwise nothing changes.
func (e *Engine) Start() error {
	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	if e.state.Phase != PhaseIdle || e.state.Remaining <= 0 {
		phase := e.state.Phase
		e.mu.Unlock()
		return stateError("start", phase)
	}

	e.state.Phase = PhaseRunning
	e.gen++
	gen := e.gen
	e.handle = e.sched.Every(e.interval, func() { e.tick(gen) })
	remaining := e.state.Remaining
	e.mu.Unlock()

	log.Printf("timer: started with %ds remaining", remaining)
	e.emitPhase(PhaseIdle, PhaseRunning)
	return nil
}

// Stop pauses a running countdown, keeping the remaining time
func (e *Engine) Stop() error {
	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	if e.state.Phase != PhaseRunning {
		phase := e.state.Phase
		e.mu.Unlock()
		return stateError("stop", phase)
	}

	e.cancelLocked()
	e.state.Phase = PhaseIdle
	remaining := e.state.Remaining
	e.mu.Unlock()

	log.Printf("timer: stopped with %ds remaining", remaining)
	e.emitPhase(PhaseRunning, PhaseIdle)
	return nil
}

// Toggle starts an idle countdown or stops a running one
func (e *Engine) Toggle() error {
	if e.Phase() == PhaseRunning {
		return e.Stop()
	}
	return e.Start()
}

// Tick advances a running countdown by one step; no-op in any other phase
func (e *Engine) Tick() {
	e.tick(0)
}

// tick applies one decrement; gen 0 accepts the tick from any source
func (e *Engine) tick(gen uint64) {
	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	if e.state.Phase != PhaseRunning || (gen != 0 && gen != e.gen) {
		e.mu.Unlock()
		return
	}

	e.state.Remaining--
	expired := e.state.Remaining <= 0
	if expired {
		e.state.Remaining = 0
		e.cancelLocked()
		e.state.Phase = PhaseExpired
	}
	frame := e.state.frame()
	ev := Expiry{Message: e.message, Configured: e.state.Configured}
	e.mu.Unlock()

	e.emitFrame(frame)
	if expired {
		log.Printf("timer: expired after %ds", ev.Configured)
		e.emitPhase(PhaseRunning, PhaseExpired)
		if e.notifier != nil {
			e.notifier.Expired(ev)
		}
	}
}

// cancelLocked stops the periodic handle created by Start
func (e *Engine) cancelLocked() {
	if e.handle != nil {
		e.handle.Stop()
		e.handle = nil
	}
	// Invalidate any tick already in flight from the cancelled handle
	e.gen++
}

// Snapshot returns a copy of the current state
func (e *Engine) Snapshot() TimerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Phase returns the current phase
func (e *Engine) Phase() Phase {
	return e.Snapshot().Phase
}

// Zone returns the current color zone
func (e *Engine) Zone() ColorZone {
	return e.Snapshot().Zone()
}

// Remaining returns the remaining time
func (e *Engine) Remaining() time.Duration {
	return e.Snapshot().RemainingDuration()
}

// ProgressFraction returns remaining/configured, 0 when nothing is configured
func (e *Engine) ProgressFraction() float64 {
	return e.Snapshot().Progress()
}

// RingFraction returns the lag-corrected fraction for a circular indicator
func (e *Engine) RingFraction() float64 {
	return e.Snapshot().Ring()
}

// Frame returns the display update for the current state without emitting it
func (e *Engine) Frame() Frame {
	return e.Snapshot().frame()
}

func (e *Engine) emitFrame(f Frame) {
	if e.sink != nil {
		e.sink.Render(f)
	}
}

func (e *Engine) emitPhase(from, to Phase) {
	for _, o := range e.observers {
		o.PhaseChanged(from, to)
	}
}
