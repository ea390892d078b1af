package timer

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidState    = errors.New("invalid state for operation")
)

// InvalidDurationError describes rejected configure input
type InvalidDurationError struct {
	Minutes string
	Seconds string
	Reason  string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration %q:%q: %s", e.Minutes, e.Seconds, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidDuration)
func (e *InvalidDurationError) Unwrap() error {
	return ErrInvalidDuration
}

// stateError wraps ErrInvalidState with the attempted operation and current phase
func stateError(op string, phase Phase) error {
	return fmt.Errorf("%s while %s: %w", op, phase, ErrInvalidState)
}
