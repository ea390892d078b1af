package timer

import (
	"fmt"
	"time"
)

// TimerState is the complete countdown state owned by one Engine
type TimerState struct {
	Configured int   // Seconds set by the last successful Configure
	Remaining  int   // Seconds left, 0 <= Remaining <= Configured
	Phase      Phase // Lifecycle stage

	// Thresholds derived from Configured, recomputed on every Configure
	Warning float64 // Configured / 2
	Alert   float64 // Configured / 4
}

// newState builds an Idle state with remaining equal to the configured total
func newState(total int) TimerState {
	warning := float64(total) / 2
	return TimerState{
		Configured: total,
		Remaining:  total,
		Phase:      PhaseIdle,
		Warning:    warning,
		Alert:      warning / 2,
	}
}

// Zone returns the color zone for the current remaining time
func (s TimerState) Zone() ColorZone {
	return ZoneFor(s.Remaining, s.Warning, s.Alert)
}

// Progress returns Remaining/Configured, or 0 when nothing is configured
func (s TimerState) Progress() float64 {
	if s.Configured <= 0 {
		return 0
	}
	return float64(s.Remaining) / float64(s.Configured)
}

// Ring returns the progress fraction pulled ahead by one step as it approaches
// zero, f - (1/total)(1-f), so a ring drawn one tick late still empties on time.
// Clamped to [0,1].
func (s TimerState) Ring() float64 {
	if s.Configured <= 0 {
		return 0
	}
	f := s.Progress()
	r := f - (1/float64(s.Configured))*(1-f)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// RemainingDuration returns the remaining time as a duration
func (s TimerState) RemainingDuration() time.Duration {
	return time.Duration(s.Remaining) * time.Second
}

// frame renders the state into a sink update
func (s TimerState) frame() Frame {
	return Frame{
		Minutes:   TwoDigits(s.Remaining / 60),
		Seconds:   TwoDigits(s.Remaining % 60),
		Remaining: s.Remaining,
		Progress:  s.Progress(),
		Ring:      s.Ring(),
		Zone:      s.Zone(),
		Phase:     s.Phase,
	}
}

// TwoDigits zero-pads n to at least two digits
func TwoDigits(n int) string {
	return fmt.Sprintf("%02d", n)
}
