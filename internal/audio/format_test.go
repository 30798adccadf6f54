package audio

import (
	"testing"
	"time"
)

func TestFormatValidate(t *testing.T) {
	tests := []struct {
		name        string
		format      Format
		expectError bool
	}{
		{
			name:        "valid cd-quality mono",
			format:      Format{SampleRate: 44100, SampleWidth: 2, Channels: 1},
			expectError: false,
		},
		{
			name:        "valid telephony rate",
			format:      Format{SampleRate: 8000, SampleWidth: 2, Channels: 1},
			expectError: false,
		},
		{
			name:        "sample rate too low",
			format:      Format{SampleRate: 4000, SampleWidth: 2, Channels: 1},
			expectError: true,
		},
		{
			name:        "sample rate too high",
			format:      Format{SampleRate: 384000, SampleWidth: 2, Channels: 1},
			expectError: true,
		},
		{
			name:        "unsupported sample width",
			format:      Format{SampleRate: 44100, SampleWidth: 3, Channels: 1},
			expectError: true,
		},
		{
			name:        "stereo not supported",
			format:      Format{SampleRate: 44100, SampleWidth: 2, Channels: 2},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if tt.expectError && err == nil {
				t.Errorf("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestFormatFrameSizes(t *testing.T) {
	f := Format{SampleRate: 44100, SampleWidth: 2, Channels: 1}

	if n := f.FrameSamples(100 * time.Millisecond); n != 4410 {
		t.Errorf("FrameSamples(100ms) = %d, expected 4410", n)
	}

	if n := f.FrameBytes(100 * time.Millisecond); n != 8820 {
		t.Errorf("FrameBytes(100ms) = %d, expected 8820", n)
	}

	if n := f.BytesPerSample(); n != 2 {
		t.Errorf("BytesPerSample() = %d, expected 2", n)
	}
}
