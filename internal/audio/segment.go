package audio

import (
	"fmt"
	"time"
)

// Segment is the structured audio representation: raw PCM bytes with the
// format metadata attached. It is an interchangeable view over the same
// bytes as the numeric sample buffer: constructing a Segment from samples
// and reading its Samples back is byte-for-byte lossless.
type Segment struct {
	Data        []byte // Raw little-endian PCM bytes
	SampleRate  int
	SampleWidth int
	Channels    int
}

// NewSegment wraps raw PCM bytes with metadata taken from the format.
// The byte count must hold a whole number of samples.
func NewSegment(data []byte, f Format) (Segment, error) {
	if bps := f.BytesPerSample(); bps > 0 && len(data)%bps != 0 {
		return Segment{}, fmt.Errorf("pcm data length %d is not a multiple of the %d-byte sample size", len(data), bps)
	}

	return Segment{
		Data:        data,
		SampleRate:  f.SampleRate,
		SampleWidth: f.SampleWidth,
		Channels:    f.Channels,
	}, nil
}

// NewSegmentFromSamples builds a Segment from a numeric sample buffer.
func NewSegmentFromSamples(samples []int16, f Format) Segment {
	return Segment{
		Data:        SamplesToBytes(samples),
		SampleRate:  f.SampleRate,
		SampleWidth: f.SampleWidth,
		Channels:    f.Channels,
	}
}

// Format returns the metadata attached to the segment.
func (s Segment) Format() Format {
	return Format{
		SampleRate:  s.SampleRate,
		SampleWidth: s.SampleWidth,
		Channels:    s.Channels,
	}
}

// Samples returns the segment's audio as a numeric sample buffer.
// Only valid for 2-byte samples.
func (s Segment) Samples() ([]int16, error) {
	if s.SampleWidth != 2 {
		return nil, fmt.Errorf("numeric sample view requires 2-byte samples, segment has %d-byte samples", s.SampleWidth)
	}
	return BytesToSamples(s.Data)
}

// NumSamples returns the number of samples in the segment.
func (s Segment) NumSamples() int {
	bps := s.SampleWidth * s.Channels
	if bps == 0 {
		return 0
	}
	return len(s.Data) / bps
}

// Duration returns the play time of the segment.
func (s Segment) Duration() time.Duration {
	if s.SampleRate == 0 {
		return 0
	}
	return time.Duration(s.NumSamples()) * time.Second / time.Duration(s.SampleRate)
}
