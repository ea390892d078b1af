package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/lixenwraith/pomodoro/timer"
)

// Line writes each frame as one status line, for terminals without the full UI
type Line struct {
	mu  sync.Mutex
	w   io.Writer
	tty bool
}

// NewLine creates a line sink; with tty set, frames overwrite each other with \r
func NewLine(w io.Writer, tty bool) *Line {
	return &Line{w: w, tty: tty}
}

// Render implements timer.Sink
func (l *Line) Render(f timer.Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()

	text := fmt.Sprintf("%s:%s  %-7s %3.0f%%", f.Minutes, f.Seconds, f.Zone, f.Progress*100)
	switch {
	case !l.tty:
		fmt.Fprintln(l.w, text)
	case f.Phase == timer.PhaseExpired:
		fmt.Fprintf(l.w, "\r%s\n", text)
	default:
		fmt.Fprintf(l.w, "\r%s", text)
	}
}

// Alert implements notify.Alerter
func (l *Line) Alert(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, message)
}
