package audio

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeWAVRoundTrip(t *testing.T) {
	samples := make([]int16, 8000)
	for i := range samples {
		samples[i] = int16(i%700 - 350)
	}
	orig := NewSegmentFromSamples(samples, Format{SampleRate: 8000, SampleWidth: 2, Channels: 1})

	wav, err := EncodeWAV(orig)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	if len(wav) != wavHeaderSize+len(orig.Data) {
		t.Errorf("Expected %d bytes, got %d", wavHeaderSize+len(orig.Data), len(wav))
	}

	decoded, err := DecodeWAV(wav)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}

	if !bytes.Equal(decoded.Data, orig.Data) {
		t.Errorf("PCM data does not round-trip through WAV")
	}
	if decoded.SampleRate != orig.SampleRate || decoded.SampleWidth != orig.SampleWidth || decoded.Channels != orig.Channels {
		t.Errorf("Expected format %v, got %v", orig.Format(), decoded.Format())
	}
}

func TestEncodeWAVErrors(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
	}{
		{
			name: "empty segment",
			seg:  Segment{SampleRate: 8000, SampleWidth: 2, Channels: 1},
		},
		{
			name: "unsupported sample width",
			seg:  Segment{Data: []byte{1, 2, 3}, SampleRate: 8000, SampleWidth: 3, Channels: 1},
		},
		{
			name: "zero sample rate",
			seg:  Segment{Data: []byte{1, 2}, SampleRate: 0, SampleWidth: 2, Channels: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncodeWAV(tt.seg); err == nil {
				t.Errorf("Expected error but got none")
			}
		})
	}
}

func TestDecodeWAVErrors(t *testing.T) {
	valid, err := EncodeWAV(NewSegmentFromSamples([]int16{1, 2, 3}, Format{SampleRate: 8000, SampleWidth: 2, Channels: 1}))
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	notRIFF := append([]byte{}, valid...)
	copy(notRIFF[0:4], "JUNK")

	truncated := append([]byte{}, valid...)
	truncated = truncated[:len(truncated)-2]

	tests := []struct {
		name string
		data []byte
	}{
		{name: "too short", data: []byte{0x52, 0x49}},
		{name: "not a RIFF file", data: notRIFF},
		{name: "data chunk truncated", data: truncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeWAV(tt.data); err == nil {
				t.Errorf("Expected error but got none")
			}
		})
	}
}
