// Package audio plays the expiry alarm through the system speaker.
//
// The alarm is either a WAV resource or a synthesized bell, rendered once into
// a buffer and mixed onto the speaker on demand. Every method is safe to call
// when no audio device is available; playback then silently does nothing.
package audio

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/lixenwraith/pomodoro/constants"
)

// Sentinel errors
var (
	ErrEmptySound = errors.New("sound resource contains no samples")
)

// Player owns the speaker and the alarm buffer
type Player struct {
	mu          sync.Mutex
	config      *AudioConfig
	rate        beep.SampleRate
	mixer       *beep.Mixer
	alarm       *beep.Buffer
	initialized bool
	played      int
}

// NewPlayer prepares the alarm sound. A configured SoundPath that cannot be
// decoded is reported and the synthesized bell is used instead.
func NewPlayer(cfg *AudioConfig) (*Player, error) {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = constants.AudioSampleRate
	}
	cfg.MasterVolume = clampVolume(cfg.MasterVolume)

	p := &Player{
		config: cfg,
		rate:   beep.SampleRate(cfg.SampleRate),
		mixer:  &beep.Mixer{},
	}

	var loadErr error
	if cfg.SoundPath != "" {
		p.alarm, loadErr = LoadWAV(cfg.SoundPath, p.rate)
	}
	if p.alarm == nil {
		bell, err := bellBuffer(p.rate)
		if err != nil {
			return nil, fmt.Errorf("synthesize bell: %w", err)
		}
		p.alarm = bell
	}

	return p, loadErr
}

// Init opens the speaker; failure leaves the player silent
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(p.rate, p.rate.N(constants.SpeakerBufferDuration)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// PlayAlarm mixes one copy of the alarm onto the speaker
func (p *Player) PlayAlarm() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || !p.config.Enabled {
		return
	}

	s := newVolume(p.alarm.Streamer(0, p.alarm.Len()), p.config.MasterVolume)

	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()

	p.played++
	log.Printf("audio: alarm queued (%v)", p.AlarmDuration())
}

// AlarmDuration returns the length of the prepared alarm
func (p *Player) AlarmDuration() time.Duration {
	return p.rate.D(p.alarm.Len())
}

// Played returns how many alarms were queued
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// ToggleMute flips Enabled, returns true if now enabled
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config.Enabled = !p.config.Enabled
	return p.config.Enabled
}

// Volume returns the master volume (0.0-1.0)
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config.MasterVolume
}

// SetVolume updates master volume (0.0-1.0)
func (p *Player) SetVolume(vol float64) {
	p.mu.Lock()
	p.config.MasterVolume = clampVolume(vol)
	p.mu.Unlock()
}

// Close stops all sounds and releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()

	p.initialized = false
}
