package packet

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/aKuad/go-intercom/internal/audio"
)

// ExtLenSize is the size of the extension length prefix in bytes.
const ExtLenSize = 4

// MaxExtLen is the largest extension payload representable in the prefix.
const MaxExtLen = math.MaxUint32

// EncodingError reports input that cannot be serialized: an extension payload
// longer than the length prefix can represent, or audio bytes that do not
// hold a whole number of samples.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return "packet encoding: " + e.Reason
}

// MalformedPacketError reports a packet that cannot be decoded: too short for
// the length prefix, a declared extension length inconsistent with the packet
// size, or a trailing audio byte count that is not a whole number of samples.
type MalformedPacketError struct {
	Reason string
}

func (e *MalformedPacketError) Error() string {
	return "malformed packet: " + e.Reason
}

// Codec encodes and decodes audio packets for one fixed PCM format.
// It holds no mutable state: every method is a pure function of its inputs,
// safe for concurrent use without locking.
type Codec struct {
	format audio.Format
}

// NewCodec creates a codec for the given format. The format only needs to be
// arithmetically usable here; stricter pipeline constraints are enforced by
// the configuration layer.
func NewCodec(f audio.Format) (*Codec, error) {
	if f.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", f.SampleRate)
	}

	if f.SampleWidth < 1 {
		return nil, fmt.Errorf("sample width must be at least 1 byte, got %d", f.SampleWidth)
	}

	if f.Channels < 1 {
		return nil, fmt.Errorf("channel count must be at least 1, got %d", f.Channels)
	}

	return &Codec{format: f}, nil
}

// Format returns the PCM format the codec was built with.
func (c *Codec) Format() audio.Format {
	return c.format
}

// Encode serializes raw PCM bytes and an extension payload into one packet.
// The extension may be empty; its content is copied verbatim and never
// inspected. The PCM bytes must hold a whole number of samples.
func (c *Codec) Encode(pcm, ext []byte) ([]byte, error) {
	if uint64(len(ext)) > MaxExtLen {
		return nil, &EncodingError{Reason: fmt.Sprintf("extension payload of %d bytes exceeds the %d-byte length field", len(ext), ExtLenSize)}
	}

	if bps := c.format.BytesPerSample(); len(pcm)%bps != 0 {
		return nil, &EncodingError{Reason: fmt.Sprintf("pcm length %d is not a multiple of the %d-byte sample size", len(pcm), bps)}
	}

	pkt := make([]byte, ExtLenSize+len(ext)+len(pcm))
	binary.BigEndian.PutUint32(pkt, uint32(len(ext)))
	copy(pkt[ExtLenSize:], ext)
	copy(pkt[ExtLenSize+len(ext):], pcm)

	return pkt, nil
}

// Decode splits a packet back into raw PCM bytes and the extension payload.
// It is the exact inverse of Encode; both returned slices are copies, so the
// caller may reuse the packet buffer. A packet with no extension decodes to
// an empty, non-nil extension slice.
func (c *Codec) Decode(pkt []byte) (pcm, ext []byte, err error) {
	if len(pkt) < ExtLenSize {
		return nil, nil, &MalformedPacketError{Reason: fmt.Sprintf("packet of %d bytes is shorter than the %d-byte length prefix", len(pkt), ExtLenSize)}
	}

	extLen := binary.BigEndian.Uint32(pkt)
	if uint64(ExtLenSize)+uint64(extLen) > uint64(len(pkt)) {
		return nil, nil, &MalformedPacketError{Reason: fmt.Sprintf("declared extension length %d exceeds the %d remaining bytes", extLen, len(pkt)-ExtLenSize)}
	}

	audioBytes := pkt[ExtLenSize+int(extLen):]
	if bps := c.format.BytesPerSample(); len(audioBytes)%bps != 0 {
		return nil, nil, &MalformedPacketError{Reason: fmt.Sprintf("audio byte count %d is not a multiple of the %d-byte sample size", len(audioBytes), bps)}
	}

	ext = make([]byte, extLen)
	copy(ext, pkt[ExtLenSize:ExtLenSize+int(extLen)])

	pcm = make([]byte, len(audioBytes))
	copy(pcm, audioBytes)

	return pcm, ext, nil
}

// EncodeSamples serializes a numeric sample buffer and an extension payload.
// The numeric view requires the codec's 2-byte sample width.
func (c *Codec) EncodeSamples(samples []int16, ext []byte) ([]byte, error) {
	if c.format.SampleWidth != 2 {
		return nil, &EncodingError{Reason: fmt.Sprintf("numeric sample view requires 2-byte samples, codec is configured for %d-byte samples", c.format.SampleWidth)}
	}

	return c.Encode(audio.SamplesToBytes(samples), ext)
}

// DecodeSamples decodes a packet into a numeric sample buffer and the
// extension payload.
func (c *Codec) DecodeSamples(pkt []byte) ([]int16, []byte, error) {
	if c.format.SampleWidth != 2 {
		return nil, nil, &MalformedPacketError{Reason: fmt.Sprintf("numeric sample view requires 2-byte samples, codec is configured for %d-byte samples", c.format.SampleWidth)}
	}

	pcm, ext, err := c.Decode(pkt)
	if err != nil {
		return nil, nil, err
	}

	// Cannot fail: Decode already checked the sample alignment.
	samples, err := audio.BytesToSamples(pcm)
	if err != nil {
		return nil, nil, &MalformedPacketError{Reason: err.Error()}
	}

	return samples, ext, nil
}

// EncodeSegment serializes a structured audio segment and an extension
// payload. Only the segment's raw bytes reach the wire; its metadata is
// discarded, since both ends already share the format out-of-band.
func (c *Codec) EncodeSegment(seg audio.Segment, ext []byte) ([]byte, error) {
	return c.Encode(seg.Data, ext)
}

// DecodeSegment decodes a packet into a structured audio segment with
// metadata attached from the codec's format, and the extension payload.
func (c *Codec) DecodeSegment(pkt []byte) (audio.Segment, []byte, error) {
	pcm, ext, err := c.Decode(pkt)
	if err != nil {
		return audio.Segment{}, nil, err
	}

	seg, err := audio.NewSegment(pcm, c.format)
	if err != nil {
		return audio.Segment{}, nil, &MalformedPacketError{Reason: err.Error()}
	}

	return seg, ext, nil
}
