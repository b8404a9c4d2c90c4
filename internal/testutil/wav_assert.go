package testutil

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/example/go-klatt/internal/audio"
)

// streamingSize marks a chunk whose length was unknown when it was written.
const streamingSize = 0xFFFFFFFF

// AssertValidWAV fails tb unless data is a 10 kHz mono 16-bit PCM WAV file
// holding at least one sample.
func AssertValidWAV(tb testing.TB, data []byte) {
	tb.Helper()

	if len(data) < 44 {
		tb.Fatalf("WAV: %d bytes is shorter than a header", len(data))
	}
	for _, m := range []struct {
		at   int
		want string
	}{{0, "RIFF"}, {8, "WAVE"}, {12, "fmt "}} {
		if got := string(data[m.at : m.at+4]); got != m.want {
			tb.Fatalf("WAV: bytes %d-%d = %q; want %q", m.at, m.at+3, got, m.want)
		}
	}

	le := binary.LittleEndian
	fields := []struct {
		name      string
		got, want uint32
	}{
		{"format", uint32(le.Uint16(data[20:])), 1},
		{"channels", uint32(le.Uint16(data[22:])), audio.ExpectedChannels},
		{"sample rate", le.Uint32(data[24:]), audio.ExpectedSampleRate},
		{"bit depth", uint32(le.Uint16(data[34:])), audio.ExpectedBitDepth},
	}
	for _, f := range fields {
		if f.got != f.want {
			tb.Fatalf("WAV: %s = %d; want %d", f.name, f.got, f.want)
		}
	}

	if len(WAVSamples(tb, data)) == 0 {
		tb.Fatal("WAV: no samples")
	}
}

// AssertWAVDurationApprox fails tb unless the file plays for between minSec
// and maxSec seconds.
func AssertWAVDurationApprox(tb testing.TB, data []byte, minSec, maxSec float64) {
	tb.Helper()

	secs := float64(len(WAVSamples(tb, data))) / audio.ExpectedSampleRate
	if secs < minSec || secs > maxSec {
		tb.Fatalf("WAV plays %.3fs; want %.3f-%.3fs", secs, minSec, maxSec)
	}
}

// WAVSamples returns the 16-bit samples of a mono WAV file. A data chunk
// written with an unknown length extends to the end of data.
func WAVSamples(tb testing.TB, data []byte) []int16 {
	tb.Helper()

	pcm, err := dataChunk(data)
	if err != nil {
		tb.Fatalf("WAV: %v", err)
	}

	return PCMSamples(pcm)
}

// PCMSamples decodes headerless little-endian 16-bit samples.
func PCMSamples(pcm []byte) []int16 {
	if len(pcm) < 2 {
		return nil
	}
	out := make([]int16, len(pcm)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}

	return out
}

// dataChunk returns the payload of the first "data" chunk after the RIFF
// header. Chunks are word aligned.
func dataChunk(data []byte) ([]byte, error) {
	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		body := offset + 8

		if id == "data" {
			if size == streamingSize || body+int(size) > len(data) {
				return data[body:], nil
			}
			return data[body : body+int(size)], nil
		}

		offset = body + int(size) + int(size&1)
	}

	return nil, errors.New("no data chunk")
}
