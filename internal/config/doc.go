// Package config provides configuration loading and validation for the
// intercom client and the debug echo server. Configuration is YAML-based
// with per-section struct validation.
package config
