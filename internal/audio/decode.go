package audio

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cwbudde/wav"
)

// Output format of the synthesizer: 10 kHz, mono, 16-bit PCM.
const (
	ExpectedSampleRate = 10000
	ExpectedChannels   = 1
	ExpectedBitDepth   = 16
)

// ErrFormatMismatch is returned when a WAV file is not 10 kHz mono 16-bit.
var ErrFormatMismatch = errors.New("WAV format mismatch")

// DecodeWAV returns the samples of a WAV file in the synthesizer format,
// scaled to [-1, 1].
func DecodeWAV(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, errors.New("empty WAV input")
	}
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}

	for _, c := range []struct {
		what      string
		got, want int
	}{
		{"sample rate", int(dec.SampleRate), ExpectedSampleRate},
		{"channels", int(dec.NumChans), ExpectedChannels},
		{"bit depth", int(dec.BitDepth), ExpectedBitDepth},
	} {
		if c.got != c.want {
			return nil, fmt.Errorf("%w: %s %d, want %d", ErrFormatMismatch, c.what, c.got, c.want)
		}
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading PCM data: %w", err)
	}
	return buf.Data, nil
}

// DecodeSamples is DecodeWAV followed by Float32ToInt16.
func DecodeSamples(data []byte) ([]int16, error) {
	f, err := DecodeWAV(data)
	if err != nil {
		return nil, err
	}
	return Float32ToInt16(f), nil
}
