package timer

import (
	"math"
	"strconv"
	"strings"
)

// ParseDuration converts minute and second input text to integers.
// Empty fields count as zero; anything other than a non-negative decimal
// integer is rejected with an *InvalidDurationError.
func ParseDuration(minutes, seconds string) (int, int, error) {
	m, reason := parseField(minutes)
	if reason == "" {
		var s int
		s, reason = parseField(seconds)
		if reason == "" {
			if reason = checkRange(m, s); reason == "" {
				return m, s, nil
			}
		}
	}
	return 0, 0, &InvalidDurationError{Minutes: minutes, Seconds: seconds, Reason: reason}
}

func parseField(text string) (int, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ""
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, "not a whole number"
	}
	if n < 0 {
		return 0, "negative value"
	}
	return n, ""
}

// checkRange rejects negative fields and totals that overflow int seconds
func checkRange(minutes, seconds int) string {
	if minutes < 0 || seconds < 0 {
		return "negative value"
	}
	if minutes > (math.MaxInt-seconds)/60 {
		return "duration too large"
	}
	return ""
}
