package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aKuad/go-intercom/internal/audio"
	"github.com/aKuad/go-intercom/internal/metrics"
	"github.com/aKuad/go-intercom/internal/packet"
)

// Device is the duplex audio device the loop captures from and plays to.
// ReadFrame blocks until one frame of input is available.
type Device interface {
	ReadFrame(ctx context.Context) ([]int16, error)
	WriteFrame(ctx context.Context, samples []int16) error
}

// Transport carries one whole packet per Send/Recv call.
type Transport interface {
	Send(ctx context.Context, pkt []byte) error
	Recv(ctx context.Context) ([]byte, error)
}

// Config contains streaming loop options.
type Config struct {
	// SendSequence attaches a 4-byte big-endian sequence number as the
	// extension payload of every outgoing packet. When false the extension
	// is empty.
	SendSequence bool

	// RecordPath, when non-empty, collects all played audio and writes it
	// to this path as a WAV file when the loop stops.
	RecordPath string
}

// Stats is a snapshot of loop counters.
type Stats struct {
	FramesSent    uint64
	FramesPlayed  uint64
	FramesDropped uint64
}

// Loop drives the capture-encode-send-receive-decode-play cycle.
type Loop struct {
	codec     *packet.Codec
	device    Device
	transport Transport
	logger    *slog.Logger
	metrics   *metrics.Metrics
	cfg       Config

	seq      uint32
	recorded []int16

	mu            sync.Mutex
	framesSent    uint64
	framesPlayed  uint64
	framesDropped uint64
}

// NewLoop wires the streaming loop together. All collaborators are required.
func NewLoop(codec *packet.Codec, device Device, transport Transport, logger *slog.Logger, m *metrics.Metrics, cfg Config) *Loop {
	return &Loop{
		codec:     codec,
		device:    device,
		transport: transport,
		logger:    logger,
		metrics:   m,
		cfg:       cfg,
	}
}

// Run streams until the context is cancelled or the device or transport
// fails. A reply packet that fails to decode drops that one frame and the
// stream continues; every other error terminates the loop.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("Streaming started",
		slog.String("format", l.codec.Format().String()),
		slog.Bool("send_sequence", l.cfg.SendSequence),
	)

	for {
		select {
		case <-ctx.Done():
			return l.finish(nil)
		default:
		}

		if err := l.cycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return l.finish(nil)
			}
			return l.finish(err)
		}
	}
}

// cycle performs one full streaming cycle.
func (l *Loop) cycle(ctx context.Context) error {
	start := time.Now()

	samples, err := l.device.ReadFrame(ctx)
	if err != nil {
		return fmt.Errorf("device read: %w", err)
	}

	pkt, err := l.codec.EncodeSamples(samples, l.nextExtension())
	if err != nil {
		// Frames come straight from the device in the configured format, so
		// an encode failure is a wiring bug rather than bad input.
		l.metrics.EncodeErrors.Inc()
		return fmt.Errorf("encode frame: %w", err)
	}

	if err := l.transport.Send(ctx, pkt); err != nil {
		return fmt.Errorf("transport send: %w", err)
	}

	l.mu.Lock()
	l.framesSent++
	l.mu.Unlock()

	reply, err := l.transport.Recv(ctx)
	if err != nil {
		return fmt.Errorf("transport recv: %w", err)
	}

	out, _, err := l.codec.DecodeSamples(reply)
	if err != nil {
		var malformed *packet.MalformedPacketError
		if errors.As(err, &malformed) {
			l.logger.Warn("Dropping malformed reply packet",
				slog.Int("packet_bytes", len(reply)),
				slog.String("error", err.Error()),
			)
			l.metrics.RecordDroppedFrame()
			l.mu.Lock()
			l.framesDropped++
			l.mu.Unlock()
			return nil
		}
		return fmt.Errorf("decode reply: %w", err)
	}

	if err := l.device.WriteFrame(ctx, out); err != nil {
		return fmt.Errorf("device write: %w", err)
	}

	l.mu.Lock()
	l.framesPlayed++
	l.mu.Unlock()

	if l.cfg.RecordPath != "" {
		l.recorded = append(l.recorded, out...)
	}

	l.metrics.RecordCycle(len(pkt), len(reply), time.Since(start).Seconds())

	return nil
}

// nextExtension builds the extension payload for the next outgoing packet.
func (l *Loop) nextExtension() []byte {
	if !l.cfg.SendSequence {
		return nil
	}

	ext := make([]byte, 4)
	binary.BigEndian.PutUint32(ext, l.seq)
	l.seq++
	return ext
}

// finish flushes the recorder and logs final counters, preserving the
// original error if any.
func (l *Loop) finish(runErr error) error {
	stats := l.Stats()
	l.logger.Info("Streaming stopped",
		slog.Uint64("frames_sent", stats.FramesSent),
		slog.Uint64("frames_played", stats.FramesPlayed),
		slog.Uint64("frames_dropped", stats.FramesDropped),
	)

	if err := l.flushRecording(); err != nil {
		l.logger.Error("Failed to write recording", slog.String("error", err.Error()))
		if runErr == nil {
			runErr = err
		}
	}

	return runErr
}

// flushRecording writes the collected playback audio as a WAV file.
func (l *Loop) flushRecording() error {
	if l.cfg.RecordPath == "" || len(l.recorded) == 0 {
		return nil
	}

	seg := audio.NewSegmentFromSamples(l.recorded, l.codec.Format())
	wav, err := audio.EncodeWAV(seg)
	if err != nil {
		return fmt.Errorf("encode recording: %w", err)
	}

	if err := os.WriteFile(l.cfg.RecordPath, wav, 0644); err != nil {
		return fmt.Errorf("write recording %s: %w", l.cfg.RecordPath, err)
	}

	l.logger.Info("Recording written",
		slog.String("path", l.cfg.RecordPath),
		slog.Duration("duration", seg.Duration()),
	)

	return nil
}

// Stats returns a snapshot of the loop counters.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Stats{
		FramesSent:    l.framesSent,
		FramesPlayed:  l.framesPlayed,
		FramesDropped: l.framesDropped,
	}
}
