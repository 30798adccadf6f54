// Package audio provides the shared PCM format description, conversions
// between raw sample bytes and numeric sample buffers, the structured
// Segment representation, and WAV encoding for debug recordings.
package audio
