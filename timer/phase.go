package timer

// Phase is the countdown lifecycle stage
type Phase int

const (
	PhaseIdle    Phase = iota // Configured or paused, not counting
	PhaseRunning              // Counting down once per tick
	PhaseExpired              // Reached zero; only Configure leaves this phase
)

// String returns phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseRunning:
		return "Running"
	case PhaseExpired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// ColorZone classifies urgency from remaining time
type ColorZone int

const (
	ZoneNormal  ColorZone = iota // remaining > warning threshold
	ZoneWarning                  // alert < remaining <= warning
	ZoneAlert                    // remaining <= alert threshold
)

// String returns zone name
func (z ColorZone) String() string {
	switch z {
	case ZoneNormal:
		return "Normal"
	case ZoneWarning:
		return "Warning"
	case ZoneAlert:
		return "Alert"
	default:
		return "Unknown"
	}
}

// ZoneFor maps remaining seconds against the two thresholds
func ZoneFor(remaining int, warning, alert float64) ColorZone {
	r := float64(remaining)
	switch {
	case r <= alert:
		return ZoneAlert
	case r <= warning:
		return ZoneWarning
	default:
		return ZoneNormal
	}
}
