package device

import (
	"context"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/aKuad/go-intercom/internal/audio"
)

// Stream is a duplex PortAudio stream on the default input and output
// devices. Reads and writes block for one frame period, which paces the
// streaming loop to real time.
type Stream struct {
	stream *portaudio.Stream
	in     []int16
	out    []int16
}

// Open initializes PortAudio and opens a started duplex stream with one
// configured frame per buffer.
func Open(format audio.Format, frame time.Duration) (*Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	n := format.FrameSamples(frame)
	s := &Stream{
		in:  make([]int16, n*format.Channels),
		out: make([]int16, n*format.Channels),
	}

	stream, err := portaudio.OpenDefaultStream(format.Channels, format.Channels, float64(format.SampleRate), n, s.in, s.out)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}

	s.stream = stream
	return s, nil
}

// ReadFrame blocks until one frame has been captured and returns a copy of
// the samples.
func (s *Stream) ReadFrame(ctx context.Context) ([]int16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.stream.Read(); err != nil {
		return nil, fmt.Errorf("failed to read from input device: %w", err)
	}

	samples := make([]int16, len(s.in))
	copy(samples, s.in)
	return samples, nil
}

// WriteFrame plays one frame. A short frame is zero-padded so playback
// never blocks on a partially filled buffer.
func (s *Stream) WriteFrame(ctx context.Context, samples []int16) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(samples) > len(s.out) {
		return fmt.Errorf("frame of %d samples exceeds the %d-sample device buffer", len(samples), len(s.out))
	}

	copy(s.out, samples)
	for i := len(samples); i < len(s.out); i++ {
		s.out[i] = 0
	}

	if err := s.stream.Write(); err != nil {
		return fmt.Errorf("failed to write to output device: %w", err)
	}

	return nil
}

// Close stops the stream and releases PortAudio.
func (s *Stream) Close() error {
	var firstErr error

	if err := s.stream.Stop(); err != nil {
		firstErr = fmt.Errorf("failed to stop audio stream: %w", err)
	}

	if err := s.stream.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close audio stream: %w", err)
	}

	if err := portaudio.Terminate(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to terminate portaudio: %w", err)
	}

	return firstErr
}
