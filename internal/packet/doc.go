// Package packet implements the audio packet codec: the serialization of one
// audio frame plus an opaque extension payload into a single wire buffer, and
// the exact inverse. The wire layout is a 4-byte big-endian extension length,
// the extension bytes verbatim, then raw little-endian PCM occupying the rest
// of the packet. PCM parameters are fixed by out-of-band configuration on
// both ends and are never carried in the packet itself.
package packet
