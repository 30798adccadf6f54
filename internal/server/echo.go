package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aKuad/go-intercom/internal/audio"
	"github.com/aKuad/go-intercom/internal/config"
	"github.com/aKuad/go-intercom/internal/metrics"
)

// EchoServer accepts WebSocket connections and echoes every binary message
// back to its sender unchanged.
type EchoServer struct {
	server  *http.Server
	logger  *slog.Logger
	format  audio.Format
	metrics *metrics.EchoMetrics

	startTime time.Time
	wg        sync.WaitGroup

	// Statistics
	connectionsTotal  atomic.Uint64
	activeConnections atomic.Int64
	messagesEchoed    atomic.Uint64
	bytesEchoed       atomic.Uint64
}

// EchoStats is a snapshot of server statistics for the /stats endpoint.
type EchoStats struct {
	ConnectionsTotal  uint64  `json:"connections_total"`
	ActiveConnections int64   `json:"active_connections"`
	MessagesEchoed    uint64  `json:"messages_echoed"`
	BytesEchoed       uint64  `json:"bytes_echoed"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// NewEchoServer creates an echo server listening per the echo config.
func NewEchoServer(cfg config.EchoConfig, format audio.Format, logger *slog.Logger, m *metrics.EchoMetrics) *EchoServer {
	s := &EchoServer{
		logger:    logger,
		format:    format,
		metrics:   m,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/config", s.handleConfig)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler:      mux,
		ReadTimeout:  0, // WebSocket connections are long-lived
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins serving in a background goroutine.
func (s *EchoServer) Start() error {
	s.logger.Info("Echo server starting",
		slog.String("address", s.server.Addr),
		slog.String("format", s.format.String()),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Echo server failed", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *EchoServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping echo server...")

	// Hijacked WebSocket connections outlive Shutdown, so force-close them
	// once the deadline passes.
	if err := s.server.Shutdown(ctx); err != nil {
		if closeErr := s.server.Close(); closeErr != nil {
			s.logger.Warn("Error force-closing echo server", slog.String("error", closeErr.Error()))
		}
	}

	s.wg.Wait()

	s.logger.Info("Echo server stopped",
		slog.Uint64("connections_total", s.connectionsTotal.Load()),
		slog.Uint64("messages_echoed", s.messagesEchoed.Load()),
	)

	return nil
}

// handleWebSocket upgrades the connection and echoes messages until the
// client disconnects.
func (s *EchoServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket accept failed",
			slog.String("remote", r.RemoteAddr),
			slog.String("error", err.Error()),
		)
		return
	}
	defer conn.CloseNow()

	conn.SetReadLimit(1 << 20)

	s.connectionsTotal.Add(1)
	s.activeConnections.Add(1)
	s.metrics.ConnectionsTotal.Inc()
	s.metrics.ActiveConnections.Inc()
	defer func() {
		s.activeConnections.Add(-1)
		s.metrics.ActiveConnections.Dec()
	}()

	s.logger.Info("Client connected", slog.String("remote", r.RemoteAddr))

	ctx := r.Context()
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				s.logger.Info("Client disconnected", slog.String("remote", r.RemoteAddr))
			} else {
				s.logger.Warn("Connection read failed",
					slog.String("remote", r.RemoteAddr),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		if err := conn.Write(ctx, typ, data); err != nil {
			s.logger.Warn("Connection write failed",
				slog.String("remote", r.RemoteAddr),
				slog.String("error", err.Error()),
			)
			return
		}

		s.messagesEchoed.Add(1)
		s.bytesEchoed.Add(uint64(len(data)))
		s.metrics.MessagesEchoed.Inc()
		s.metrics.BytesEchoed.Add(float64(len(data)))
	}
}

// handleHealth reports service liveness.
func (s *EchoServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(s.startTime).Seconds(),
	})
}

// handleStats reports echo statistics.
func (s *EchoServer) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Stats())
}

// handleConfig reports the audio format the server expects its peers to use.
func (s *EchoServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"audio": map[string]interface{}{
			"sample_rate":  s.format.SampleRate,
			"sample_width": s.format.SampleWidth,
			"channels":     s.format.Channels,
		},
	})
}

// Stats returns a snapshot of the server counters.
func (s *EchoServer) Stats() EchoStats {
	return EchoStats{
		ConnectionsTotal:  s.connectionsTotal.Load(),
		ActiveConnections: s.activeConnections.Load(),
		MessagesEchoed:    s.messagesEchoed.Load(),
		BytesEchoed:       s.bytesEchoed.Load(),
		UptimeSeconds:     time.Since(s.startTime).Seconds(),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
