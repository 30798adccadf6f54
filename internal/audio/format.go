package audio

import (
	"fmt"
	"time"
)

// Format describes the PCM parameters shared by every component that touches
// audio bytes: capture, playback, packet encoding and decoding. Both ends of
// a connection must agree on it out-of-band; it is never carried on the wire.
type Format struct {
	SampleRate  int // Samples per second (e.g. 44100)
	SampleWidth int // Bytes per sample
	Channels    int // Channel count
}

// Validate checks the format against what the client supports.
// The streaming pipeline is 16-bit mono end to end, so anything else is
// rejected here rather than producing silently corrupted audio downstream.
func (f Format) Validate() error {
	if f.SampleRate < 8000 || f.SampleRate > 192000 {
		return fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %d", f.SampleRate)
	}

	if f.SampleWidth != 2 {
		return fmt.Errorf("sample_width must be 2 bytes (16-bit PCM), got %d", f.SampleWidth)
	}

	if f.Channels != 1 {
		return fmt.Errorf("channels must be 1 (mono), got %d", f.Channels)
	}

	return nil
}

// BytesPerSample returns the size of one multi-channel sample in bytes.
func (f Format) BytesPerSample() int {
	return f.SampleWidth * f.Channels
}

// FrameSamples returns the number of samples in a frame of duration d.
func (f Format) FrameSamples(d time.Duration) int {
	return int(int64(f.SampleRate) * int64(d) / int64(time.Second))
}

// FrameBytes returns the number of PCM bytes in a frame of duration d.
func (f Format) FrameBytes(d time.Duration) int {
	return f.FrameSamples(d) * f.BytesPerSample()
}

// String returns a human-readable representation of the format.
func (f Format) String() string {
	return fmt.Sprintf("%dHz/%d-bit/%dch", f.SampleRate, f.SampleWidth*8, f.Channels)
}
