// Package device provides microphone capture and speaker playback through
// PortAudio as a blocking duplex stream.
package device
