package audio

import (
	"bytes"
	"testing"
)

func TestSamplesToBytes(t *testing.T) {
	samples := []int16{100, -100, 32000}
	expected := []byte{0x64, 0x00, 0x9C, 0xFF, 0x00, 0x7D}

	if got := SamplesToBytes(samples); !bytes.Equal(got, expected) {
		t.Errorf("SamplesToBytes(%v) = % X, expected % X", samples, got, expected)
	}
}

func TestBytesToSamples(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expected    []int16
		expectError bool
	}{
		{
			name:     "three samples",
			data:     []byte{0x64, 0x00, 0x9C, 0xFF, 0x00, 0x7D},
			expected: []int16{100, -100, 32000},
		},
		{
			name:     "extremes",
			data:     []byte{0x00, 0x80, 0xFF, 0x7F},
			expected: []int16{-32768, 32767},
		},
		{
			name:     "empty",
			data:     []byte{},
			expected: []int16{},
		},
		{
			name:        "odd byte count",
			data:        []byte{0x64, 0x00, 0x9C},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BytesToSamples(tt.data)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error but got: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d samples, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Sample %d: expected %d, got %d", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestSampleConversionRoundTrip(t *testing.T) {
	samples := make([]int16, 4410)
	for i := range samples {
		samples[i] = int16(i*13 - 29000)
	}

	got, err := BytesToSamples(SamplesToBytes(samples))
	if err != nil {
		t.Fatalf("BytesToSamples failed: %v", err)
	}

	for i := range samples {
		if got[i] != samples[i] {
			t.Fatalf("Sample %d: expected %d, got %d", i, samples[i], got[i])
		}
	}
}
