package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client wraps a websocket connection with write serialization so the
// dispatcher, the presence registry and the relays can push to it from
// different goroutines. It is the presence.Conn implementation.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

// WriteJSON sends one JSON frame. Writes are serialized per connection.
func (c *Client) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Close closes the underlying connection, which also unblocks the read loop.
func (c *Client) Close() error {
	return c.conn.Close()
}
