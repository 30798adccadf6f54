package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus metrics for the client streaming loop.
type Metrics struct {
	FramesCaptured  prometheus.Counter
	FramesPlayed    prometheus.Counter
	FramesDropped   prometheus.Counter
	PacketsSent     prometheus.Counter
	PacketsReceived prometheus.Counter
	BytesSent       prometheus.Counter
	BytesReceived   prometheus.Counter
	EncodeErrors    prometheus.Counter
	DecodeErrors    prometheus.Counter
	CycleDuration   prometheus.Histogram
}

// NewMetrics creates and registers the client metrics on the default
// registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates the client metrics on a caller-provided registry.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FramesCaptured: factory.NewCounter(prometheus.CounterOpts{
			Name: "intercom_frames_captured_total",
			Help: "Total number of audio frames captured from the microphone",
		}),
		FramesPlayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "intercom_frames_played_total",
			Help: "Total number of audio frames written to the output device",
		}),
		FramesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "intercom_frames_dropped_total",
			Help: "Total number of reply frames dropped because the packet was malformed",
		}),
		PacketsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "intercom_packets_sent_total",
			Help: "Total number of audio packets sent to the peer",
		}),
		PacketsReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "intercom_packets_received_total",
			Help: "Total number of audio packets received from the peer",
		}),
		BytesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "intercom_bytes_sent_total",
			Help: "Total packet bytes sent to the peer",
		}),
		BytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "intercom_bytes_received_total",
			Help: "Total packet bytes received from the peer",
		}),
		EncodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "intercom_encode_errors_total",
			Help: "Total number of packet encoding failures",
		}),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "intercom_decode_errors_total",
			Help: "Total number of packet decoding failures",
		}),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "intercom_cycle_duration_seconds",
			Help:    "Duration of one capture-send-receive-play cycle",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}),
	}
}

// RecordCycle records one completed streaming cycle.
func (m *Metrics) RecordCycle(sentBytes, receivedBytes int, durationSeconds float64) {
	m.FramesCaptured.Inc()
	m.FramesPlayed.Inc()
	m.PacketsSent.Inc()
	m.PacketsReceived.Inc()
	m.BytesSent.Add(float64(sentBytes))
	m.BytesReceived.Add(float64(receivedBytes))
	m.CycleDuration.Observe(durationSeconds)
}

// RecordDroppedFrame records a reply packet that failed to decode.
func (m *Metrics) RecordDroppedFrame() {
	m.FramesDropped.Inc()
	m.DecodeErrors.Inc()
}

// EchoMetrics contains the Prometheus metrics for the debug echo server.
type EchoMetrics struct {
	ActiveConnections prometheus.Gauge
	ConnectionsTotal  prometheus.Counter
	MessagesEchoed    prometheus.Counter
	BytesEchoed       prometheus.Counter
}

// NewEchoMetrics creates and registers the echo server metrics on the
// default registry.
func NewEchoMetrics() *EchoMetrics {
	return NewEchoMetricsWith(prometheus.DefaultRegisterer)
}

// NewEchoMetricsWith creates the echo server metrics on a caller-provided
// registry.
func NewEchoMetricsWith(reg prometheus.Registerer) *EchoMetrics {
	factory := promauto.With(reg)

	return &EchoMetrics{
		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "intercom_echo_active_connections",
			Help: "Current number of connected clients",
		}),
		ConnectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "intercom_echo_connections_total",
			Help: "Total number of client connections accepted",
		}),
		MessagesEchoed: factory.NewCounter(prometheus.CounterOpts{
			Name: "intercom_echo_messages_total",
			Help: "Total number of messages echoed back to clients",
		}),
		BytesEchoed: factory.NewCounter(prometheus.CounterOpts{
			Name: "intercom_echo_bytes_total",
			Help: "Total message bytes echoed back to clients",
		}),
	}
}
