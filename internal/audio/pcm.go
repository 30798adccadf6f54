package audio

import (
	"encoding/binary"
	"fmt"
)

// SamplesToBytes converts a numeric sample buffer to raw little-endian
// PCM-16 bytes, the byte order used both on the wire and by the audio device.
func SamplesToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return data
}

// BytesToSamples reinterprets raw little-endian PCM-16 bytes as a numeric
// sample buffer. The byte count must be even.
func BytesToSamples(data []byte) ([]int16, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("pcm data length must be even, got %d bytes", len(data))
	}

	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples, nil
}
