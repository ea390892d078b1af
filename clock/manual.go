package clock

import (
	"sync"
	"time"
)

// Manual is a controllable scheduler for tests.
// Virtual time starts at zero and moves only through Advance; Fire runs every
// live periodic callback once without moving time.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	nextID uint64
	tasks  []*manualTask
}

type manualTask struct {
	id       uint64
	m        *Manual
	fn       func()
	interval time.Duration // zero for one-shot
	deadline time.Duration
	stopped  bool
}

// NewManual creates a manual scheduler at virtual time zero
func NewManual() *Manual {
	return &Manual{}
}

// Stop removes the task; a callback already running is not interrupted
func (t *manualTask) Stop() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.stopped = true
	t.m.removeLocked(t.id)
}

// Every registers a periodic task with its first deadline one interval from now
func (m *Manual) Every(interval time.Duration, fn func()) Handle {
	return m.add(interval, interval, fn)
}

// After registers a one-shot task
func (m *Manual) After(delay time.Duration, fn func()) Handle {
	return m.add(0, delay, fn)
}

func (m *Manual) add(interval, delay time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	t := &manualTask{
		id:       m.nextID,
		m:        m,
		fn:       fn,
		interval: interval,
		deadline: m.now + delay,
	}
	m.tasks = append(m.tasks, t)
	return t
}

func (m *Manual) removeLocked(id uint64) {
	for i, t := range m.tasks {
		if t.id == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}

// Fire invokes every live periodic callback once, in registration order
func (m *Manual) Fire() {
	m.mu.Lock()
	due := make([]*manualTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		if t.interval > 0 {
			due = append(due, t)
		}
	}
	m.mu.Unlock()

	for _, t := range due {
		if m.live(t) {
			t.fn()
		}
	}
}

// Advance moves virtual time forward, running each deadline crossed in order
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var next *manualTask
		for _, t := range m.tasks {
			if t.deadline <= target && (next == nil || t.deadline < next.deadline) {
				next = t
			}
		}
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}

		m.now = next.deadline
		if next.interval > 0 {
			next.deadline += next.interval
		} else {
			next.stopped = true
			m.removeLocked(next.id)
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

// Now returns the elapsed virtual time
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Active returns the number of live periodic handles
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeLocked()
}

// Pending returns the number of one-shot callbacks not yet run or stopped
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks) - m.activeLocked()
}

func (m *Manual) activeLocked() int {
	n := 0
	for _, t := range m.tasks {
		if t.interval > 0 {
			n++
		}
	}
	return n
}

func (m *Manual) live(t *manualTask) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !t.stopped
}
