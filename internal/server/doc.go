// Package server implements the debug echo server: a WebSocket endpoint
// that returns every audio packet verbatim, plus HTTP endpoints for health,
// statistics and Prometheus metrics. It exists so the client can be tested
// against a loopback peer.
package server
