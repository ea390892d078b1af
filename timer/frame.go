package timer

// Frame is one display update for a presentation sink
type Frame struct {
	Minutes   string    // Zero-padded, at least two digits
	Seconds   string    // Zero-padded, two digits
	Remaining int       // Seconds left
	Progress  float64   // Remaining/configured in [0,1]
	Ring      float64   // Progress corrected for ring animation lag, in [0,1]
	Zone      ColorZone // Urgency classification
	Phase     Phase     // Phase after the change that produced this frame
}

// Expiry is emitted once when the countdown reaches zero
type Expiry struct {
	Message    string // User-visible alert text
	Configured int    // Duration that just elapsed, in seconds
}

// Sink receives display updates on every tick and every configure
type Sink interface {
	Render(Frame)
}

// Notifier receives the expiry event
type Notifier interface {
	Expired(Expiry)
}

// PhaseObserver receives lifecycle transitions
type PhaseObserver interface {
	PhaseChanged(from, to Phase)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Frame)

// Render calls f(frame)
func (f SinkFunc) Render(frame Frame) { f(frame) }

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Expiry)

// Expired calls f(ev)
func (f NotifierFunc) Expired(ev Expiry) { f(ev) }

// PhaseObserverFunc adapts a function to PhaseObserver
type PhaseObserverFunc func(from, to Phase)

// PhaseChanged calls f(from, to)
func (f PhaseObserverFunc) PhaseChanged(from, to Phase) { f(from, to) }

// Sinks fans a frame out to several sinks in order
type Sinks []Sink

// Render forwards frame to every non-nil sink
func (s Sinks) Render(frame Frame) {
	for _, sink := range s {
		if sink != nil {
			sink.Render(frame)
		}
	}
}
