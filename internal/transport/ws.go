package transport

import (
	"context"
	"fmt"

	"github.com/coder/websocket"
)

// Read limit generous enough for any realistic audio frame plus extension.
const maxMessageSize = 1 << 20

// Conn is a WebSocket connection carrying audio packets as discrete binary
// messages. Send and Recv may be used concurrently with each other but each
// must not be called from more than one goroutine at a time.
type Conn struct {
	ws *websocket.Conn
}

// Dial opens a connection to the peer at the given ws:// or wss:// URI.
func Dial(ctx context.Context, uri string) (*Conn, error) {
	ws, _, err := websocket.Dial(ctx, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", uri, err)
	}

	ws.SetReadLimit(maxMessageSize)

	return &Conn{ws: ws}, nil
}

// Send transmits one packet as a single binary message.
func (c *Conn) Send(ctx context.Context, pkt []byte) error {
	if err := c.ws.Write(ctx, websocket.MessageBinary, pkt); err != nil {
		return fmt.Errorf("failed to send packet: %w", err)
	}
	return nil
}

// Recv blocks until one whole message arrives and returns its payload.
func (c *Conn) Recv(ctx context.Context) ([]byte, error) {
	typ, data, err := c.ws.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to receive packet: %w", err)
	}

	if typ != websocket.MessageBinary {
		return nil, fmt.Errorf("unexpected %v message from peer", typ)
	}

	return data, nil
}

// Close performs the closing handshake and releases the connection.
func (c *Conn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "session closed")
}
