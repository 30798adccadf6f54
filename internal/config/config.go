package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aKuad/go-intercom/internal/audio"
)

// Config represents the complete configuration for both binaries.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Audio   AudioConfig   `yaml:"audio"`
	Stream  StreamConfig  `yaml:"stream"`
	Echo    EchoConfig    `yaml:"echo"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig describes the remote peer the client connects to.
type ServerConfig struct {
	URI         string `yaml:"uri"`          // ws:// or wss:// endpoint
	DialTimeout int    `yaml:"dial_timeout"` // seconds
}

// AudioConfig contains the shared PCM parameters. Both ends of a connection
// must run with identical values; they are never negotiated on the wire.
type AudioConfig struct {
	SampleRate    int     `yaml:"sample_rate"`
	SampleWidth   int     `yaml:"sample_width"` // bytes per sample
	Channels      int     `yaml:"channels"`
	FrameDuration float64 `yaml:"frame_duration"` // seconds of audio per device callback
}

// StreamConfig contains streaming loop options.
type StreamConfig struct {
	SendSequence bool   `yaml:"send_sequence"` // attach a sequence number as the extension payload
	RecordPath   string `yaml:"record_path"`   // optional WAV dump of played audio
}

// EchoConfig contains the debug echo server listen parameters.
type EchoConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// MetricsConfig contains the Prometheus endpoint configuration for the client.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when a field is absent from the
// file: CD-rate 16-bit mono audio with one tenth of a second per frame.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URI:         "ws://localhost:8765",
			DialTimeout: 10,
		},
		Audio: AudioConfig{
			SampleRate:    44100,
			SampleWidth:   2,
			Channels:      1,
			FrameDuration: 0.1,
		},
		Echo: EchoConfig{
			Address: "0.0.0.0",
			Port:    8765,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "127.0.0.1",
			Port:    9091,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Validate performs validation of the whole configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Echo.Validate(); err != nil {
		return fmt.Errorf("echo config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates the server section.
func (s *ServerConfig) Validate() error {
	if s.URI == "" {
		return fmt.Errorf("uri cannot be empty")
	}

	u, err := url.Parse(s.URI)
	if err != nil {
		return fmt.Errorf("uri is not a valid URL: %w", err)
	}

	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("uri scheme must be ws or wss, got %q", u.Scheme)
	}

	if s.DialTimeout < 1 {
		return fmt.Errorf("dial_timeout must be at least 1 second, got %d", s.DialTimeout)
	}

	return nil
}

// Validate validates the audio section.
func (a *AudioConfig) Validate() error {
	if err := a.Format().Validate(); err != nil {
		return err
	}

	if a.FrameDuration <= 0 || a.FrameDuration > 1 {
		return fmt.Errorf("frame_duration must be between 0 and 1 second, got %f", a.FrameDuration)
	}

	return nil
}

// Validate validates the echo server section.
func (e *EchoConfig) Validate() error {
	if e.Port < 1 || e.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", e.Port)
	}

	if e.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	return nil
}

// Validate validates the metrics section.
func (m *MetricsConfig) Validate() error {
	if !m.Enabled {
		return nil
	}

	if m.Port < 1 || m.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", m.Port)
	}

	if m.Address == "" {
		return fmt.Errorf("address cannot be empty when metrics are enabled")
	}

	return nil
}

// Validate validates the logging section.
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got %q", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got %q", l.Format)
	}

	return nil
}

// Format returns the audio section as the shared PCM format value.
func (a *AudioConfig) Format() audio.Format {
	return audio.Format{
		SampleRate:  a.SampleRate,
		SampleWidth: a.SampleWidth,
		Channels:    a.Channels,
	}
}

// GetFrameDuration returns the frame duration as a time.Duration.
func (a *AudioConfig) GetFrameDuration() time.Duration {
	return time.Duration(a.FrameDuration * float64(time.Second))
}

// GetDialTimeout returns the dial timeout as a time.Duration.
func (s *ServerConfig) GetDialTimeout() time.Duration {
	return time.Duration(s.DialTimeout) * time.Second
}
