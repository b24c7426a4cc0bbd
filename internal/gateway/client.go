package gateway

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one live channel for a user. A user may hold several at once
// (multi-device); every one of them receives pushes.
type Client struct {
	id     string
	userID string
	conn   *websocket.Conn
	hub    *Hub

	// egress is the buffered send queue. Producers never block on it:
	// when it is full the event is dropped and the durable stores carry
	// the fallback.
	egress chan []byte
	done   chan struct{}
	once   sync.Once
}

// shutdown signals the pumps exactly once, whichever of Leave or the hub
// Close gets there first.
func (c *Client) shutdown() {
	c.once.Do(func() { close(c.done) })
}

func newClient(hub *Hub, userID string, conn *websocket.Conn) *Client {
	return &Client{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		hub:    hub,
		egress: make(chan []byte, hub.egressBuffer),
		done:   make(chan struct{}),
	}
}

// UserID returns the owner of this channel.
func (c *Client) UserID() string { return c.userID }

// Run services the connection until it drops, then deregisters the
// client. Blocks; call from the websocket handler goroutine.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
	c.hub.Leave(c)
}

// readPump drains inbound frames. The gateway is push-only; clients talk
// to the server over REST, so inbound payloads are discarded. Reading is
// still required to process pongs and close frames.
func (c *Client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(c.hub.maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("gateway: client %s read error: %v", c.id, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	pingInterval := (c.hub.pongWait * 9) / 10
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.egress:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("gateway: client %s write error: %v", c.id, err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
