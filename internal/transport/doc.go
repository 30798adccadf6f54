// Package transport provides the WebSocket connection to the remote peer.
// It exchanges whole binary messages: one audio packet per message, with no
// additional framing on top.
package transport
