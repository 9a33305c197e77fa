package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeTimeout = 10 * time.Second
	// idleTimeout is how long a connection may stay silent, pongs included
	idleTimeout  = 60 * time.Second
	pingInterval = idleTimeout * 9 / 10

	// maxCommandSize fits a subscribe or unsubscribe command
	maxCommandSize = 512
	outboundBuffer = 256
)

// Client is one websocket connection. It watches the trips it is
// registered for in the hub and sends commands to change them.
type Client struct {
	id       string
	conn     *websocket.Conn
	hub      *Hub
	outbound chan []byte

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewClient wraps an upgraded connection
func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		id:       uuid.New().String(),
		conn:     conn,
		hub:      hub,
		outbound: make(chan []byte, outboundBuffer),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// Send queues a message without blocking. A client whose buffer is full is
// treated as gone.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.outbound <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close stops the write pump and closes the connection. It may be called
// more than once.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.outbound)
		c.mu.Unlock()

		err = c.conn.Close()
	})
	return err
}

// IsClosed reports whether Close has been called
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ReadPump hands every text frame to the hub as a subscription command
// until the connection fails, then ends all of the client's subscriptions.
// Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxCommandSize)
	c.touch()
	c.conn.SetPongHandler(func(string) error {
		c.touch()
		return nil
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket closed unexpectedly")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		c.touch()
		c.hub.HandleCommand(c, data)
	}
}

// WritePump delivers queued messages and keeps the connection alive with
// pings. Run it in its own goroutine.
func (c *Client) WritePump() {
	heartbeat := time.NewTicker(pingInterval)
	defer func() {
		heartbeat.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.outbound:
			if !ok {
				c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket write failed")
				return
			}
		case <-heartbeat.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) touch() {
	c.conn.SetReadDeadline(time.Now().Add(idleTimeout))
}

func (c *Client) write(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(messageType, data)
}
