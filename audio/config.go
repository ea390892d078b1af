package audio

import "github.com/lixenwraith/pomodoro/constants"

// AudioConfig holds alarm playback settings
type AudioConfig struct {
	Enabled      bool
	MasterVolume float64 // 0.0-1.0
	SampleRate   int
	SoundPath    string // WAV resource; empty selects the synthesized bell
}

// DefaultAudioConfig returns enabled audio at half volume with the built-in bell
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: constants.DefaultMasterVolume,
		SampleRate:   constants.AudioSampleRate,
	}
}

// clampVolume bounds v to [0,1]
func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
