package constants

import "time"

// Audio Engine
const (
	// AudioSampleRate is the speaker sample rate in Hz
	AudioSampleRate = 44100

	// SpeakerBufferDuration is the speaker buffer length, trading latency for underruns
	SpeakerBufferDuration = 100 * time.Millisecond

	// DefaultMasterVolume is the alarm gain when not configured
	DefaultMasterVolume = 0.5
)

// Bell Sound Timing
const (
	BellSoundDuration           = 600 * time.Millisecond
	BellSoundAttack             = 5 * time.Millisecond
	BellSoundFundamentalRelease = 550 * time.Millisecond
	BellSoundOvertoneRelease    = 200 * time.Millisecond

	// BellFundamentalHz is A5
	BellFundamentalHz = 880.0

	// BellStrikes is how many times the bell rings per alarm
	BellStrikes = 3

	// BellStrikeGap is the silence between strikes
	BellStrikeGap = 150 * time.Millisecond
)
