// Package config loads timer settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lixenwraith/pomodoro/audio"
	"github.com/lixenwraith/pomodoro/constants"
	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvMinutes      = "POMODORO_MINUTES"
	EnvSeconds      = "POMODORO_SECONDS"
	EnvAudioEnabled = "POMODORO_AUDIO_ENABLED"
	EnvVolume       = "POMODORO_VOLUME" // 0-100
	EnvSound        = "POMODORO_SOUND"
	EnvConfig       = "POMODORO_CONFIG"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Timer   TimerConfig   `yaml:"timer"`
	Audio   AudioConfig   `yaml:"audio"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type TimerConfig struct {
	Minutes      int           `yaml:"minutes"`
	Seconds      int           `yaml:"seconds"`
	TickInterval time.Duration `yaml:"tick_interval"`
	AlertDelay   time.Duration `yaml:"alert_delay"`
	Message      string        `yaml:"message"`
}

type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
	SoundPath  string  `yaml:"sound_path"`
}

type LogConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Default returns a 25 minute countdown with sound at half volume
func Default() *Config {
	return &Config{
		Timer: TimerConfig{
			Minutes:      constants.DefaultMinutes,
			Seconds:      constants.DefaultSeconds,
			TickInterval: constants.TickInterval,
			AlertDelay:   constants.AlertDelay,
			Message:      constants.ExpiryMessage,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     constants.DefaultMasterVolume,
			SampleRate: constants.AudioSampleRate,
		},
		Log: LogConfig{
			Dir: "logs",
		},
	}
}

// DefaultPath returns ~/.config/pomodoro/config.yaml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pomodoro", "config.yaml"), nil
}

// Load reads path over the defaults, applies environment overrides and validates.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from POMODORO_* variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvMinutes); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvMinutes, v, ErrInvalidConfig)
		}
		c.Timer.Minutes = n
	}
	if v := os.Getenv(EnvSeconds); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvSeconds, v, ErrInvalidConfig)
		}
		c.Timer.Seconds = n
	}
	if v := os.Getenv(EnvAudioEnabled); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvAudioEnabled, v, ErrInvalidConfig)
		}
		c.Audio.Enabled = b
	}
	if v := os.Getenv(EnvVolume); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvVolume, v, ErrInvalidConfig)
		}
		c.Audio.Volume = float64(n) / 100.0
	}
	if v := os.Getenv(EnvSound); v != "" {
		c.Audio.SoundPath = v
	}
	return nil
}

// Validate rejects settings the timer cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Timer.Minutes < 0 || c.Timer.Seconds < 0:
		return fmt.Errorf("timer duration %d:%d is negative: %w", c.Timer.Minutes, c.Timer.Seconds, ErrInvalidConfig)
	case c.Timer.TickInterval <= 0:
		return fmt.Errorf("tick_interval %v must be positive: %w", c.Timer.TickInterval, ErrInvalidConfig)
	case c.Timer.AlertDelay < 0:
		return fmt.Errorf("alert_delay %v is negative: %w", c.Timer.AlertDelay, ErrInvalidConfig)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("volume %v outside [0,1]: %w", c.Audio.Volume, ErrInvalidConfig)
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("sample_rate %d must be positive: %w", c.Audio.SampleRate, ErrInvalidConfig)
	}
	return nil
}

// PlayerConfig converts the audio section for the player
func (c *Config) PlayerConfig() *audio.AudioConfig {
	return &audio.AudioConfig{
		Enabled:      c.Audio.Enabled,
		MasterVolume: c.Audio.Volume,
		SampleRate:   c.Audio.SampleRate,
		SoundPath:    c.Audio.SoundPath,
	}
}
