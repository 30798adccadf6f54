package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aKuad/go-intercom/internal/config"
	"github.com/aKuad/go-intercom/internal/device"
	"github.com/aKuad/go-intercom/internal/metrics"
	"github.com/aKuad/go-intercom/internal/packet"
	"github.com/aKuad/go-intercom/internal/stream"
	"github.com/aKuad/go-intercom/internal/transport"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "go-intercom-client"
	serviceVersion    = "1.0.0"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	serverURI := flag.String("server", "", "Server URI, overrides the configured one")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *serverURI != "" {
		cfg.Server.URI = *serverURI
		if err := cfg.Server.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid server URI: %v\n", err)
			os.Exit(1)
		}
	}

	logger := config.NewLogger(cfg.Logging)

	logger.Info("Client starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("server_uri", cfg.Server.URI),
		slog.String("format", cfg.Audio.Format().String()),
		slog.Duration("frame_duration", cfg.Audio.GetFrameDuration()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appMetrics := metrics.NewMetrics()
	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics, logger)
	}

	codec, err := packet.NewCodec(cfg.Audio.Format())
	if err != nil {
		logger.Error("Failed to create codec", slog.String("error", err.Error()))
		os.Exit(1)
	}

	audioStream, err := device.Open(cfg.Audio.Format(), cfg.Audio.GetFrameDuration())
	if err != nil {
		logger.Error("Failed to open audio device", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := audioStream.Close(); err != nil {
			logger.Warn("Error closing audio device", slog.String("error", err.Error()))
		}
	}()
	logger.Info("Audio device opened")

	dialCtx, dialCancel := context.WithTimeout(ctx, cfg.Server.GetDialTimeout())
	conn, err := transport.Dial(dialCtx, cfg.Server.URI)
	dialCancel()
	if err != nil {
		logger.Error("Failed to connect to server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn("Error closing connection", slog.String("error", err.Error()))
		}
	}()
	logger.Info("Connected to server", slog.String("uri", cfg.Server.URI))

	loop := stream.NewLoop(codec, audioStream, conn, logger, appMetrics, stream.Config{
		SendSequence: cfg.Stream.SendSequence,
		RecordPath:   cfg.Stream.RecordPath,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- loop.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		cancel()
		<-errChan
	case err := <-errChan:
		if err != nil {
			logger.Error("Streaming failed", slog.String("error", err.Error()))
		}
	}

	stats := loop.Stats()
	logger.Info("Client stopped",
		slog.Uint64("frames_sent", stats.FramesSent),
		slog.Uint64("frames_played", stats.FramesPlayed),
		slog.Uint64("frames_dropped", stats.FramesDropped),
	)
}

// serveMetrics exposes the Prometheus endpoint for the client process.
func serveMetrics(cfg config.MetricsConfig, logger *slog.Logger) {
	addr := fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("Metrics endpoint listening", slog.String("address", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics endpoint failed", slog.String("error", err.Error()))
	}
}
