package audio

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cwbudde/wav"
)

// Output formats accepted by NewSink.
const (
	FormatWAV = "wav"
	FormatPCM = "pcm"
)

// ErrClosed is returned when samples are added to a closed sink.
var ErrClosed = errors.New("audio: sink is closed")

// Sink receives rendered samples in playback order. Close finalizes the
// output; closing twice is a no-op.
type Sink interface {
	AddSamples(samples []int16) error
	Close() error
}

// NewSink returns a sink writing format to w. WAV output to a seekable
// writer gets exact chunk sizes; to anything else it is streamed with an
// unknown-length header.
func NewSink(format string, w io.Writer) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatWAV:
		if ws, ok := w.(io.WriteSeeker); ok && seekable(ws) {
			return NewWAVWriter(ws), nil
		}
		return NewStreamWriter(w), nil
	case FormatPCM:
		return NewPCMWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want %s or %s)", format, FormatWAV, FormatPCM)
	}
}

// seekable reports whether ws really seeks. Pipes and terminals implement
// io.Seeker through *os.File but fail on use.
func seekable(ws io.WriteSeeker) bool {
	_, err := ws.Seek(0, io.SeekCurrent)
	return err == nil
}

// Buffer is an in-memory sink.
type Buffer struct {
	samples []int16
	closed  bool
}

// NewBuffer returns an empty in-memory sink.
func NewBuffer() *Buffer { return &Buffer{} }

func (b *Buffer) AddSamples(samples []int16) error {
	if b.closed {
		return ErrClosed
	}
	b.samples = append(b.samples, samples...)
	return nil
}

func (b *Buffer) Close() error {
	b.closed = true
	return nil
}

// Samples returns everything added so far.
func (b *Buffer) Samples() []int16 { return b.samples }

// Float32 returns the samples scaled to [-1, 1].
func (b *Buffer) Float32() []float32 { return Int16ToFloat32(b.samples) }

// WAVWriter encodes a WAV file with exact chunk sizes, which are patched in
// on Close.
type WAVWriter struct {
	enc    *wav.Encoder
	closed bool
}

// NewWAVWriter starts a WAV file on w.
func NewWAVWriter(w io.WriteSeeker) *WAVWriter {
	return &WAVWriter{enc: newEncoder(w)}
}

func (ww *WAVWriter) AddSamples(samples []int16) error {
	if ww.closed {
		return ErrClosed
	}
	if len(samples) == 0 {
		return nil
	}
	if err := ww.enc.Write(float32Buffer(Int16ToFloat32(samples))); err != nil {
		return fmt.Errorf("writing PCM: %w", err)
	}
	return nil
}

func (ww *WAVWriter) Close() error {
	if ww.closed {
		return nil
	}
	ww.closed = true
	if err := ww.enc.Close(); err != nil {
		return fmt.Errorf("closing encoder: %w", err)
	}
	return nil
}

// StreamWriter writes a WAV header with unknown sizes followed by raw
// samples, for outputs that cannot seek.
type StreamWriter struct {
	w       io.Writer
	started bool
	closed  bool
}

// NewStreamWriter returns a streaming WAV sink on w.
func NewStreamWriter(w io.Writer) *StreamWriter { return &StreamWriter{w: w} }

func (s *StreamWriter) header() error {
	if s.started {
		return nil
	}
	s.started = true
	if err := writeStreamHeader(s.w); err != nil {
		return fmt.Errorf("writing WAV header: %w", err)
	}
	return nil
}

func (s *StreamWriter) AddSamples(samples []int16) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.header(); err != nil {
		return err
	}
	if err := writeSamples(s.w, samples); err != nil {
		return fmt.Errorf("writing PCM: %w", err)
	}
	return nil
}

// Close writes the header if no samples were ever added.
func (s *StreamWriter) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.header()
}

// PCMWriter writes headerless little-endian 16-bit samples.
type PCMWriter struct {
	w      io.Writer
	closed bool
}

// NewPCMWriter returns a raw PCM sink on w.
func NewPCMWriter(w io.Writer) *PCMWriter { return &PCMWriter{w: w} }

func (p *PCMWriter) AddSamples(samples []int16) error {
	if p.closed {
		return ErrClosed
	}
	if err := writeSamples(p.w, samples); err != nil {
		return fmt.Errorf("writing PCM: %w", err)
	}
	return nil
}

func (p *PCMWriter) Close() error {
	p.closed = true
	return nil
}
