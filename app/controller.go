// Package app runs the interactive terminal countdown.
//
// The Controller owns the screen. Engine callbacks arrive on scheduler
// goroutines; they update the view model under a mutex and mark it dirty,
// and the event loop redraws on its frame ticker.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/pomodoro/constants"
	"github.com/lixenwraith/pomodoro/core"
	"github.com/lixenwraith/pomodoro/render"
	"github.com/lixenwraith/pomodoro/timer"
)

// Engine is the subset of timer.Engine the controller drives
type Engine interface {
	ConfigureText(minutes, seconds string) error
	Toggle() error
	Snapshot() timer.TimerState
	Frame() timer.Frame
}

// Sound controls the alarm; ToggleMute reports whether sound is now enabled
type Sound interface {
	ToggleMute() bool
	Volume() float64
	SetVolume(vol float64)
}

// volumeStep is the change per +/- key press
const volumeStep = 0.1

type Controller struct {
	screen tcell.Screen
	engine Engine
	sound  Sound

	mu    sync.Mutex
	model render.Model
	dirty bool
}

// New creates a controller drawing to screen. Bind must be called before Run.
func New(screen tcell.Screen, sound Sound) *Controller {
	return &Controller{
		screen: screen,
		sound:  sound,
		model:  render.Model{Button: render.LabelStart},
		dirty:  true,
	}
}

// Bind attaches the engine and takes its current frame
func (c *Controller) Bind(e Engine) {
	f := e.Frame()

	c.mu.Lock()
	c.engine = e
	c.model.Frame = f
	c.model.Button = render.ButtonLabel(f)
	c.dirty = true
	c.mu.Unlock()
}

// Render implements timer.Sink
func (c *Controller) Render(f timer.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.model.Frame = f
	if c.model.Settings {
		// Edits keep the ring in the neutral colour until settings close
		c.model.Frame.Zone = timer.ZoneNormal
	} else {
		c.model.Button = render.ButtonLabel(f)
	}
	c.dirty = true
}

// PhaseChanged implements timer.PhaseObserver.
// Start and Stop emit no frame, so the button label follows phase here.
func (c *Controller) PhaseChanged(from, to timer.Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.model.Frame.Phase = to
	if !c.model.Settings {
		c.model.Button = render.ButtonLabel(c.model.Frame)
	}
	c.dirty = true
}

// Alert implements notify.Alerter by opening the modal dialog
func (c *Controller) Alert(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.model.Alert = message
	c.dirty = true
}

// Model returns a copy of the current view model
func (c *Controller) Model() render.Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// Run processes input and redraws until ctx is cancelled or the user quits
func (c *Controller) Run(ctx context.Context) error {
	if c.engine == nil {
		return errors.New("app: controller has no engine")
	}

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)

	core.Go(func() {
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	})

	ticker := time.NewTicker(constants.FrameInterval)
	defer ticker.Stop()

	c.draw()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !c.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				c.screen.Sync()
				c.markDirty()
			}

		case <-ticker.C:
			c.drawIfDirty()
		}
	}
}

// HandleKey applies one key press; false means quit
func (c *Controller) HandleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return false
	}

	c.mu.Lock()
	if c.model.Alert != "" {
		c.model.Alert = ""
		c.dirty = true
		c.mu.Unlock()
		return true
	}
	settings := c.model.Settings
	c.mu.Unlock()

	switch ev.Key() {
	case tcell.KeyEscape:
		return false
	case tcell.KeyEnter:
		if settings {
			c.closeSettings()
		} else {
			c.toggle()
		}
		return true
	case tcell.KeyTab, tcell.KeyBacktab:
		if settings {
			c.switchFocus()
		}
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if settings {
			c.editField(func(text string) string {
				if text == "" {
					return text
				}
				return text[:len(text)-1]
			})
		}
		return true
	case tcell.KeyUp:
		if settings {
			c.adjustField(1)
		}
		return true
	case tcell.KeyDown:
		if settings {
			c.adjustField(-1)
		}
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	r := ev.Rune()
	switch {
	case r == 'q':
		return false
	case r == 's':
		if settings {
			c.closeSettings()
		} else {
			c.openSettings()
		}
	case r == 'm':
		c.toggleMute()
	case r == '+' || r == '=':
		c.changeVolume(volumeStep)
	case r == '-':
		c.changeVolume(-volumeStep)
	case r == ' ':
		if !settings {
			c.toggle()
		}
	case r >= '0' && r <= '9' && settings:
		c.editField(func(text string) string {
			if len(text) >= c.focusWidth() {
				return text
			}
			return text + string(r)
		})
	}
	return true
}

// toggle starts or stops the countdown; on an expired or empty timer it
// opens settings the way the "new time" button does
func (c *Controller) toggle() {
	err := c.engine.Toggle()
	if err == nil {
		return
	}
	if !errors.Is(err, timer.ErrInvalidState) {
		c.setStatus(err.Error())
		return
	}
	if c.engine.Snapshot().Phase != timer.PhaseRunning {
		c.openSettings()
	}
}

func (c *Controller) openSettings() {
	st := c.engine.Snapshot()
	if st.Phase == timer.PhaseRunning {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.model.Settings = true
	c.model.Focus = render.FieldMinutes
	c.model.MinutesText = strconv.Itoa(st.Configured / 60)
	c.model.SecondsText = strconv.Itoa(st.Configured % 60)
	c.model.Frame.Zone = timer.ZoneNormal
	c.model.Status = ""
	c.dirty = true
}

// closeSettings commits the fields, which also moves an expired timer back to idle
func (c *Controller) closeSettings() {
	c.mu.Lock()
	mins, secs := c.model.MinutesText, c.model.SecondsText
	c.mu.Unlock()

	err := c.engine.ConfigureText(mins, secs)
	f := c.engine.Frame()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.model.Settings = false
	c.model.Frame = f
	c.model.Frame.Zone = timer.ZoneNormal
	c.model.Button = render.ButtonLabel(f)
	c.model.Status = statusText(err)
	c.dirty = true
}

func (c *Controller) switchFocus() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.model.Focus == render.FieldMinutes {
		c.model.Focus = render.FieldSeconds
	} else {
		c.model.Focus = render.FieldMinutes
	}
	c.dirty = true
}

func (c *Controller) focusWidth() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.model.Focus == render.FieldMinutes {
		return constants.MinutesFieldWidth
	}
	return constants.SecondsFieldWidth
}

// adjustField steps the focused field, bounded by its width
func (c *Controller) adjustField(delta int) {
	limit := 1
	for i := 0; i < c.focusWidth(); i++ {
		limit *= 10
	}
	c.editField(func(text string) string {
		n, _ := strconv.Atoi(text)
		n += delta
		if n < 0 || n >= limit {
			return text
		}
		return strconv.Itoa(n)
	})
}

// editField rewrites the focused input and reconfigures immediately
func (c *Controller) editField(edit func(string) string) {
	c.mu.Lock()
	if c.model.Focus == render.FieldMinutes {
		c.model.MinutesText = edit(c.model.MinutesText)
	} else {
		c.model.SecondsText = edit(c.model.SecondsText)
	}
	mins, secs := c.model.MinutesText, c.model.SecondsText
	c.dirty = true
	c.mu.Unlock()

	err := c.engine.ConfigureText(mins, secs)
	if err != nil {
		log.Printf("app: configure %q:%q: %v", mins, secs, err)
	}
	c.setStatus(statusText(err))
}

func (c *Controller) toggleMute() {
	if c.sound == nil {
		return
	}
	muted := !c.sound.ToggleMute()
	log.Printf("app: muted=%v", muted)

	c.mu.Lock()
	c.model.Muted = muted
	c.dirty = true
	c.mu.Unlock()
}

// changeVolume steps the alarm volume and reports it on the status line
func (c *Controller) changeVolume(delta float64) {
	if c.sound == nil {
		return
	}
	c.sound.SetVolume(c.sound.Volume() + delta)
	vol := c.sound.Volume()
	log.Printf("app: volume=%.2f", vol)
	c.setStatus(fmt.Sprintf("volume %.0f%%", vol*100))
}

func (c *Controller) setStatus(s string) {
	c.mu.Lock()
	c.model.Status = s
	c.dirty = true
	c.mu.Unlock()
}

func (c *Controller) markDirty() {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
}

func (c *Controller) drawIfDirty() {
	c.mu.Lock()
	dirty := c.dirty
	c.mu.Unlock()
	if dirty {
		c.draw()
	}
}

func (c *Controller) draw() {
	c.mu.Lock()
	m := c.model
	c.dirty = false
	c.mu.Unlock()

	render.Draw(c.screen, m)
}

func statusText(err error) string {
	if err == nil {
		return ""
	}
	var de *timer.InvalidDurationError
	if errors.As(err, &de) {
		return "invalid time: " + de.Reason
	}
	return err.Error()
}
