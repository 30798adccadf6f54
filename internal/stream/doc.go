// Package stream runs the voice streaming loop: one frame is captured from
// the input device, encoded, sent to the peer, and the reply is decoded and
// written to the output device, one cycle per device callback period.
package stream
