package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aKuad/go-intercom/internal/audio"
	"github.com/aKuad/go-intercom/internal/metrics"
	"github.com/aKuad/go-intercom/internal/packet"
)

var testFormat = audio.Format{SampleRate: 44100, SampleWidth: 2, Channels: 1}

// fakeDevice serves a fixed list of frames and records what is played.
type fakeDevice struct {
	frames [][]int16
	next   int
	played [][]int16
}

func (d *fakeDevice) ReadFrame(ctx context.Context) ([]int16, error) {
	if d.next >= len(d.frames) {
		return nil, io.EOF
	}
	frame := d.frames[d.next]
	d.next++
	return frame, nil
}

func (d *fakeDevice) WriteFrame(ctx context.Context, samples []int16) error {
	d.played = append(d.played, samples)
	return nil
}

// echoTransport replies with exactly the packet it was sent, optionally
// garbling some replies.
type echoTransport struct {
	pending   [][]byte
	sent      [][]byte
	garbleAll bool
}

func (tr *echoTransport) Send(ctx context.Context, pkt []byte) error {
	tr.sent = append(tr.sent, pkt)
	if tr.garbleAll {
		tr.pending = append(tr.pending, []byte{0x00, 0x00})
		return nil
	}
	tr.pending = append(tr.pending, pkt)
	return nil
}

func (tr *echoTransport) Recv(ctx context.Context) ([]byte, error) {
	if len(tr.pending) == 0 {
		return nil, errors.New("no pending reply")
	}
	pkt := tr.pending[0]
	tr.pending = tr.pending[1:]
	return pkt, nil
}

func newTestLoop(t *testing.T, device Device, transport Transport, cfg Config) *Loop {
	t.Helper()

	codec, err := packet.NewCodec(testFormat)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewMetricsWith(prometheus.NewRegistry())

	return NewLoop(codec, device, transport, logger, m, cfg)
}

func TestLoopEchoesFramesToDevice(t *testing.T) {
	frames := [][]int16{
		{100, -100, 32000},
		{1, 2, 3},
		{-32768, 32767, 0},
	}
	device := &fakeDevice{frames: frames}
	transport := &echoTransport{}

	loop := newTestLoop(t, device, transport, Config{})

	err := loop.Run(context.Background())
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Expected io.EOF when the device runs out of frames, got %v", err)
	}

	if len(device.played) != len(frames) {
		t.Fatalf("Expected %d played frames, got %d", len(frames), len(device.played))
	}
	for i, frame := range frames {
		for j := range frame {
			if device.played[i][j] != frame[j] {
				t.Errorf("Frame %d sample %d: expected %d, got %d", i, j, frame[j], device.played[i][j])
			}
		}
	}

	stats := loop.Stats()
	if stats.FramesSent != 3 || stats.FramesPlayed != 3 || stats.FramesDropped != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestLoopDropsMalformedReplies(t *testing.T) {
	device := &fakeDevice{frames: [][]int16{{1, 2}, {3, 4}}}
	transport := &echoTransport{garbleAll: true}

	loop := newTestLoop(t, device, transport, Config{})

	err := loop.Run(context.Background())
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Expected io.EOF, got %v", err)
	}

	if len(device.played) != 0 {
		t.Errorf("Expected no played frames, got %d", len(device.played))
	}

	stats := loop.Stats()
	if stats.FramesSent != 2 {
		t.Errorf("Expected 2 sent frames, got %d", stats.FramesSent)
	}
	if stats.FramesDropped != 2 {
		t.Errorf("Expected 2 dropped frames, got %d", stats.FramesDropped)
	}
}

func TestLoopSendsSequenceExtension(t *testing.T) {
	device := &fakeDevice{frames: [][]int16{{1}, {2}, {3}}}
	transport := &echoTransport{}

	loop := newTestLoop(t, device, transport, Config{SendSequence: true})

	if err := loop.Run(context.Background()); !errors.Is(err, io.EOF) {
		t.Fatalf("Expected io.EOF, got %v", err)
	}

	codec, _ := packet.NewCodec(testFormat)
	for i, pkt := range transport.sent {
		_, ext, err := codec.Decode(pkt)
		if err != nil {
			t.Fatalf("Sent packet %d does not decode: %v", i, err)
		}
		if len(ext) != 4 {
			t.Fatalf("Packet %d: expected 4-byte extension, got %d bytes", i, len(ext))
		}
		if seq := binary.BigEndian.Uint32(ext); seq != uint32(i) {
			t.Errorf("Packet %d: expected sequence %d, got %d", i, i, seq)
		}
	}
}

func TestLoopEmptyExtensionByDefault(t *testing.T) {
	device := &fakeDevice{frames: [][]int16{{7, 8}}}
	transport := &echoTransport{}

	loop := newTestLoop(t, device, transport, Config{})

	if err := loop.Run(context.Background()); !errors.Is(err, io.EOF) {
		t.Fatalf("Expected io.EOF, got %v", err)
	}

	codec, _ := packet.NewCodec(testFormat)
	_, ext, err := codec.Decode(transport.sent[0])
	if err != nil {
		t.Fatalf("Sent packet does not decode: %v", err)
	}
	if len(ext) != 0 {
		t.Errorf("Expected empty extension, got %d bytes", len(ext))
	}
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	device := &fakeDevice{frames: [][]int16{}}
	transport := &echoTransport{}

	loop := newTestLoop(t, device, transport, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := loop.Run(ctx); err != nil {
		t.Errorf("Expected nil error on cancellation, got %v", err)
	}
}

func TestLoopWritesRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "played.wav")

	device := &fakeDevice{frames: [][]int16{{100, -100}, {32000, 0}}}
	transport := &echoTransport{}

	loop := newTestLoop(t, device, transport, Config{RecordPath: path})

	if err := loop.Run(context.Background()); !errors.Is(err, io.EOF) {
		t.Fatalf("Expected io.EOF, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Recording not written: %v", err)
	}

	seg, err := audio.DecodeWAV(data)
	if err != nil {
		t.Fatalf("Recording is not a valid WAV file: %v", err)
	}

	samples, err := seg.Samples()
	if err != nil {
		t.Fatalf("Samples failed: %v", err)
	}

	expected := []int16{100, -100, 32000, 0}
	if len(samples) != len(expected) {
		t.Fatalf("Expected %d recorded samples, got %d", len(expected), len(samples))
	}
	for i := range expected {
		if samples[i] != expected[i] {
			t.Errorf("Recorded sample %d: expected %d, got %d", i, expected[i], samples[i])
		}
	}
}
