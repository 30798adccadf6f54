// Package metrics defines the Prometheus instrumentation for the client
// streaming loop and the debug echo server.
package metrics
