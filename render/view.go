// Package render draws the countdown on a terminal screen.
//
// Draw is immediate-mode: the caller owns the screen and passes a complete
// Model each time. Line is a headless sink for non-interactive output.
package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/pomodoro/constants"
	"github.com/lixenwraith/pomodoro/timer"
)

// Field identifies an editable input
type Field int

const (
	FieldMinutes Field = iota
	FieldSeconds
)

// Button labels
const (
	LabelStart   = "start"
	LabelStop    = "stop"
	LabelNewTime = "new time"
)

// Model is everything a frame of the interactive view shows
type Model struct {
	Frame timer.Frame

	Settings    bool   // Inputs editable, start button hidden
	Focus       Field  // Focused input in settings mode
	MinutesText string // Raw minutes input
	SecondsText string // Raw seconds input

	Button string // Start button label
	Alert  string // Non-empty shows the modal dialog
	Status string // One-line error or hint
	Muted  bool
}

// ButtonLabel derives the start button label from phase and remaining time
func ButtonLabel(f timer.Frame) string {
	switch {
	case f.Phase == timer.PhaseRunning:
		return LabelStop
	case f.Phase == timer.PhaseIdle && f.Remaining > 0:
		return LabelStart
	default:
		return LabelNewTime
	}
}

var (
	styleBase   = tcell.StyleDefault.Background(RgbBackground).Foreground(RgbText)
	styleDim    = styleBase.Foreground(RgbDim)
	styleTrack  = styleBase.Foreground(RgbRingTrack)
	styleField  = styleBase.Background(RgbFieldBg)
	styleFocus  = styleBase.Background(RgbFocusBg).Foreground(tcell.ColorBlack).Bold(true)
	styleButton = styleBase.Reverse(true).Bold(true)
	styleModal  = tcell.StyleDefault.Background(RgbModalBg).Foreground(tcell.ColorWhite).Bold(true)
	styleError  = styleBase.Foreground(RgbError)
)

const (
	ringLit   = '●'
	ringUnlit = '·'
)

// Draw renders m onto s and shows it
func Draw(s tcell.Screen, m Model) {
	w, h := s.Size()
	fill(s, 0, 0, w, h, styleBase)

	cx, cy := w/2, h/2
	zoneStyle := styleBase.Foreground(ZoneColor(m.Frame.Zone))

	if rx, ry := ringRadii(w, h); rx > 0 {
		for _, c := range RingCells(cx, cy, rx, ry, constants.RingSegments, m.Frame.Ring) {
			if c.Lit {
				s.SetContent(c.X, c.Y, ringLit, nil, zoneStyle)
			} else {
				s.SetContent(c.X, c.Y, ringUnlit, nil, styleTrack)
			}
		}
	}

	drawReadout(s, cx, cy-1, m, zoneStyle)

	if !m.Settings {
		label := " " + m.Button + " "
		drawText(s, cx-len(label)/2, cy+1, label, styleButton)
	}

	if m.Status != "" {
		drawText(s, cx-len(m.Status)/2, cy+2, m.Status, styleError)
	}

	drawHelp(s, w, h, m)

	if m.Alert != "" {
		drawModal(s, w, h, m.Alert)
	}

	s.Show()
}

// drawReadout draws MM:SS, or the two input fields in settings mode
func drawReadout(s tcell.Screen, cx, y int, m Model, style tcell.Style) {
	if !m.Settings {
		text := m.Frame.Minutes + ":" + m.Frame.Seconds
		drawText(s, cx-len(text)/2, y, text, style.Bold(true))
		return
	}

	mins := padField(m.MinutesText, constants.MinutesFieldWidth)
	secs := padField(m.SecondsText, constants.SecondsFieldWidth)
	x := cx - (len(mins)+1+len(secs))/2

	minStyle, secStyle := styleField, styleField
	if m.Focus == FieldMinutes {
		minStyle = styleFocus
	} else {
		secStyle = styleFocus
	}

	x = drawText(s, x, y, mins, minStyle)
	x = drawText(s, x, y, ":", styleBase)
	drawText(s, x, y, secs, secStyle)
}

func drawHelp(s tcell.Screen, w, h int, m Model) {
	var help string
	if m.Settings {
		help = "0-9 edit  tab field  ↑/↓ adjust  s done  q quit"
	} else {
		help = "space start/stop  s settings  m mute  +/- volume  q quit"
	}
	if m.Muted {
		help += "  [muted]"
	}
	drawText(s, (w-len([]rune(help)))/2, h-1, help, styleDim)
}

func drawModal(s tcell.Screen, w, h int, msg string) {
	hint := "press any key"
	boxW := len(msg) + 6
	if len(hint)+6 > boxW {
		boxW = len(hint) + 6
	}
	boxH := 5
	x0, y0 := (w-boxW)/2, (h-boxH)/2

	fill(s, x0, y0, boxW, boxH, styleModal)
	drawText(s, x0+(boxW-len(msg))/2, y0+1, msg, styleModal)
	drawText(s, x0+(boxW-len(hint))/2, y0+3, hint, styleModal.Bold(false))
}

// padField zero-pads typed digits for display, keeping at least width cells
func padField(text string, width int) string {
	for len(text) < width {
		text = "0" + text
	}
	return text
}

// drawText writes text left to right, clipped to the screen, returns next x
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	w, h := s.Size()
	for _, r := range text {
		if x >= 0 && x < w && y >= 0 && y < h {
			s.SetContent(x, y, r, nil, style)
		}
		x++
	}
	return x
}

func fill(s tcell.Screen, x0, y0, w, h int, style tcell.Style) {
	sw, sh := s.Size()
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			if x >= 0 && x < sw && y >= 0 && y < sh {
				s.SetContent(x, y, ' ', nil, style)
			}
		}
	}
}
