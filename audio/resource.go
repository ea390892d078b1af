package audio

import (
	"fmt"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// resampleQuality is the beep.Resample interpolation window
const resampleQuality = 4

// LoadWAV decodes a WAV file into a buffer at the given sample rate
func LoadWAV(path string, rate beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sound %s: %w", path, err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode sound %s: %w", path, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != rate {
		src = beep.Resample(resampleQuality, format.SampleRate, rate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read sound %s: %w", path, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("sound %s: %w", path, ErrEmptySound)
	}
	return buf, nil
}

// bellBuffer renders the synthesized bell once
func bellBuffer(rate beep.SampleRate) (*beep.Buffer, error) {
	bell, err := CreateBellSound(rate)
	if err != nil {
		return nil, err
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(bell)
	return buf, nil
}
