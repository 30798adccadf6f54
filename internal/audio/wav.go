package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// wavHeader is the canonical 44-byte RIFF/WAVE header for PCM data.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // File size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16 // NumChannels * BitsPerSample / 8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // Number of bytes in the data
}

const wavHeaderSize = 44

// EncodeWAV serializes a segment into a WAV file image. Used by the debug
// recorder to dump received audio; only PCM-16 segments are supported.
func EncodeWAV(seg Segment) ([]byte, error) {
	if len(seg.Data) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio segment")
	}

	if seg.SampleWidth != 2 {
		return nil, fmt.Errorf("wav encoding supports 2-byte samples only, got %d", seg.SampleWidth)
	}

	if seg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", seg.SampleRate)
	}

	if seg.Channels < 1 {
		return nil, fmt.Errorf("channel count must be at least 1, got %d", seg.Channels)
	}

	numChannels := uint16(seg.Channels)
	bitsPerSample := uint16(seg.SampleWidth * 8)
	dataSize := uint32(len(seg.Data))

	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(wavHeaderSize-8) + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   numChannels,
		SampleRate:    uint32(seg.SampleRate),
		ByteRate:      uint32(seg.SampleRate) * uint32(numChannels) * uint32(bitsPerSample) / 8,
		BlockAlign:    numChannels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(seg.Data)))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	// Segment data is already little-endian PCM, write it verbatim.
	buf.Write(seg.Data)

	return buf.Bytes(), nil
}

// DecodeWAV parses a WAV file image back into a segment.
func DecodeWAV(data []byte) (Segment, error) {
	if len(data) < wavHeaderSize {
		return Segment{}, fmt.Errorf("wav data too short: need at least %d bytes, got %d", wavHeaderSize, len(data))
	}

	var header wavHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return Segment{}, fmt.Errorf("failed to read WAV header: %w", err)
	}

	if string(header.ChunkID[:]) != "RIFF" || string(header.Format[:]) != "WAVE" {
		return Segment{}, fmt.Errorf("not a RIFF/WAVE file")
	}

	if string(header.Subchunk1ID[:]) != "fmt " || string(header.Subchunk2ID[:]) != "data" {
		return Segment{}, fmt.Errorf("invalid WAV file: missing fmt or data chunk")
	}

	if header.AudioFormat != 1 {
		return Segment{}, fmt.Errorf("unsupported audio format %d (only PCM is supported)", header.AudioFormat)
	}

	if header.BitsPerSample != 16 {
		return Segment{}, fmt.Errorf("unsupported bit depth %d (only 16-bit is supported)", header.BitsPerSample)
	}

	dataSize := int(header.Subchunk2Size)
	if wavHeaderSize+dataSize > len(data) {
		return Segment{}, fmt.Errorf("wav data chunk size %d exceeds available %d bytes", dataSize, len(data)-wavHeaderSize)
	}

	pcm := make([]byte, dataSize)
	copy(pcm, data[wavHeaderSize:wavHeaderSize+dataSize])

	return Segment{
		Data:        pcm,
		SampleRate:  int(header.SampleRate),
		SampleWidth: int(header.BitsPerSample) / 8,
		Channels:    int(header.NumChannels),
	}, nil
}
