package audio

import (
	"encoding/binary"
	"io"
)

// unknownSize fills the RIFF and data chunk sizes of a streamed WAV, whose
// length is not known when the header goes out.
const unknownSize = 0xFFFFFFFF

type streamHeader struct {
	Riff          [4]byte
	RiffSize      uint32
	Wave          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

// streamHeaderLen is the encoded size of streamHeader.
const streamHeaderLen = 44

// writeStreamHeader writes the canonical 44-byte PCM header with both chunk
// sizes set to unknownSize.
func writeStreamHeader(w io.Writer) error {
	const blockAlign = ExpectedChannels * ExpectedBitDepth / 8
	h := streamHeader{
		Riff:          [4]byte{'R', 'I', 'F', 'F'},
		RiffSize:      unknownSize,
		Wave:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   1,
		Channels:      ExpectedChannels,
		SampleRate:    ExpectedSampleRate,
		ByteRate:      ExpectedSampleRate * blockAlign,
		BlockAlign:    blockAlign,
		BitsPerSample: ExpectedBitDepth,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      unknownSize,
	}
	return binary.Write(w, binary.LittleEndian, &h)
}

// writeSamples writes samples as little-endian 16-bit PCM.
func writeSamples(w io.Writer, samples []int16) error {
	if len(samples) == 0 {
		return nil
	}
	return binary.Write(w, binary.LittleEndian, samples)
}
