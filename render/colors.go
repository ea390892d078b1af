package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/pomodoro/timer"
)

// Ring colors per zone
var (
	RgbRingNormal  = tcell.NewRGBColor(0, 200, 0)     // Normal Green
	RgbRingWarning = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbRingAlert   = tcell.NewRGBColor(255, 80, 80)   // Normal Red
	RgbRingTrack   = tcell.NewRGBColor(60, 60, 70)    // Unlit ring
	RgbBackground  = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbText        = tcell.NewRGBColor(230, 230, 230) // Readout
	RgbDim         = tcell.NewRGBColor(140, 140, 140) // Help line, disabled controls
	RgbFieldBg     = tcell.NewRGBColor(60, 70, 110)   // Editable field
	RgbFocusBg     = tcell.NewRGBColor(135, 206, 250) // Focused field, light sky blue
	RgbModalBg     = tcell.NewRGBColor(128, 0, 32)    // Alert dialog
	RgbError       = tcell.NewRGBColor(255, 0, 0)     // Status errors
)

// ZoneColor maps a color zone to its ring color
func ZoneColor(z timer.ColorZone) tcell.Color {
	switch z {
	case timer.ZoneWarning:
		return RgbRingWarning
	case timer.ZoneAlert:
		return RgbRingAlert
	default:
		return RgbRingNormal
	}
}
