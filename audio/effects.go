package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/lixenwraith/pomodoro/constants"
)

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/release envelope bounded to duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.position >= e.totalSamples {
		return 0, false
	}
	if left := e.totalSamples - e.position; len(samples) > left {
		samples = samples[:left]
	}

	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		vol := 1.0

		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s with a linear gain.
// math.Log2(0) is -Inf, so 0 volume is made silent instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// partial is one shaped sine component of the bell
func partial(rate beep.SampleRate, freq float64, release time.Duration) (beep.Streamer, error) {
	tone, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("sine %.1fHz: %w", freq, err)
	}
	return NewEnvelope(tone, constants.BellSoundDuration, constants.BellSoundAttack, release, rate), nil
}

// CreateBellSound generates the unity-gain alarm chime: a fundamental with an
// octave overtone, struck BellStrikes times
func CreateBellSound(rate beep.SampleRate) (beep.Streamer, error) {
	strikes := make([]beep.Streamer, 0, constants.BellStrikes*2)
	for i := 0; i < constants.BellStrikes; i++ {
		fund, err := partial(rate, constants.BellFundamentalHz, constants.BellSoundFundamentalRelease)
		if err != nil {
			return nil, err
		}
		over, err := partial(rate, constants.BellFundamentalHz*2, constants.BellSoundOvertoneRelease)
		if err != nil {
			return nil, err
		}

		strikes = append(strikes, beep.Mix(
			newVolume(fund, 0.7),
			newVolume(over, 0.3),
		))
		if i < constants.BellStrikes-1 {
			strikes = append(strikes, beep.Silence(rate.N(constants.BellStrikeGap)))
		}
	}
	return beep.Seq(strikes...), nil
}
