package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aKuad/go-intercom/internal/config"
	"github.com/aKuad/go-intercom/internal/metrics"
	"github.com/aKuad/go-intercom/internal/server"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "go-intercom-echoserver"
	serviceVersion    = "1.0.0"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logging)

	logger.Info("Echo server starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("address", fmt.Sprintf("%s:%d", cfg.Echo.Address, cfg.Echo.Port)),
		slog.String("format", cfg.Audio.Format().String()),
	)

	echoMetrics := metrics.NewEchoMetrics()

	srv := server.NewEchoServer(cfg.Echo, cfg.Audio.Format(), logger, echoMetrics)
	if err := srv.Start(); err != nil {
		logger.Error("Failed to start echo server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("Received shutdown signal", slog.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping echo server", slog.String("error", err.Error()))
	}

	stats := srv.Stats()
	logger.Info("Final server statistics",
		slog.Uint64("connections_total", stats.ConnectionsTotal),
		slog.Uint64("messages_echoed", stats.MessagesEchoed),
		slog.Uint64("bytes_echoed", stats.BytesEchoed),
	)
}
