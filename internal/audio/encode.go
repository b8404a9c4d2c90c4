package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"
)

// EncodeWAV returns samples as a complete 10 kHz mono 16-bit WAV file.
func EncodeWAV(samples []int16) ([]byte, error) {
	var f memFile
	w := NewWAVWriter(&f)
	if err := w.AddSamples(samples); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return f.data, nil
}

func newEncoder(w io.WriteSeeker) *wav.Encoder {
	const pcmFormat = 1
	return wav.NewEncoder(w, ExpectedSampleRate, ExpectedBitDepth, ExpectedChannels, pcmFormat)
}

func float32Buffer(samples []float32) *goaudio.Float32Buffer {
	return &goaudio.Float32Buffer{
		Data:           samples,
		Format:         &goaudio.Format{SampleRate: ExpectedSampleRate, NumChannels: ExpectedChannels},
		SourceBitDepth: ExpectedBitDepth,
	}
}

// memFile is an in-memory io.WriteSeeker. The WAV encoder seeks back to
// patch chunk sizes once the data length is known.
type memFile struct {
	data []byte
	off  int64
}

func (f *memFile) Write(p []byte) (int, error) {
	end := f.off + int64(len(p))
	if end > int64(len(f.data)) {
		f.data = append(f.data, make([]byte, end-int64(len(f.data)))...)
	}
	copy(f.data[f.off:end], p)
	f.off = end
	return len(p), nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	base := int64(0)
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = f.off
	case io.SeekEnd:
		base = int64(len(f.data))
	default:
		return 0, fmt.Errorf("memfile: bad whence %d", whence)
	}
	if base+offset < 0 {
		return 0, errors.New("memfile: negative offset")
	}
	f.off = base + offset
	return f.off, nil
}
