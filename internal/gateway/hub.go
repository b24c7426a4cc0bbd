package gateway

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
	"github.com/shafinali-ops/BioCare-sub002/internal/config"
)

// PresenceSink receives connectivity flips derived from live channels.
// Implemented by the presence service.
type PresenceSink interface {
	OnConnect(userID string)
	OnDisconnect(userID string)
}

// Event is the wire frame pushed over a live channel. The payload always
// carries the full entity so the receiver need not re-fetch.
type Event struct {
	Type    common.EventType `json:"type"`
	Payload interface{}      `json:"payload"`
}

// Hub is the realtime gateway: a registry of live channels keyed by user
// id. It implements common.Publisher for the stores.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[string]*Client // userID -> clientID -> client

	presence PresenceSink

	egressBuffer   int
	writeWait      time.Duration
	pongWait       time.Duration
	maxMessageSize int64
}

func NewHub(cfg config.GatewayConfig, presence PresenceSink) *Hub {
	return &Hub{
		clients:        make(map[string]map[string]*Client),
		presence:       presence,
		egressBuffer:   cfg.EgressBufferSize,
		writeWait:      time.Duration(cfg.WriteWait) * time.Second,
		pongWait:       time.Duration(cfg.PongWait) * time.Second,
		maxMessageSize: int64(cfg.MaxMessageSize),
	}
}

// Join registers a live channel for the user. The first channel flips the
// user's presence to connected.
func (h *Hub) Join(userID string, conn *websocket.Conn) *Client {
	c := newClient(h, userID, conn)

	h.mu.Lock()
	channels, ok := h.clients[userID]
	if !ok {
		channels = make(map[string]*Client)
		h.clients[userID] = channels
	}
	first := len(channels) == 0
	channels[c.id] = c
	h.mu.Unlock()

	log.Printf("gateway: user %s joined (channel %s)", userID, c.id)
	if first && h.presence != nil {
		h.presence.OnConnect(userID)
	}
	return c
}

// Leave deregisters a channel. Dropping the user's last channel flips
// their presence to disconnected.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	channels, ok := h.clients[c.userID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, exists := channels[c.id]; !exists {
		h.mu.Unlock()
		return
	}
	delete(channels, c.id)
	last := len(channels) == 0
	if last {
		delete(h.clients, c.userID)
	}
	h.mu.Unlock()

	c.shutdown()
	log.Printf("gateway: user %s left (channel %s)", c.userID, c.id)
	if last && h.presence != nil {
		h.presence.OnDisconnect(c.userID)
	}
}

// Push fans the event out to every live channel for the user. Marshals
// once, never blocks: a full egress queue drops the event and a user
// with no channels is a silent no-op.
func (h *Hub) Push(userID string, event common.EventType, payload interface{}) {
	h.mu.RLock()
	channels, ok := h.clients[userID]
	if !ok || len(channels) == 0 {
		h.mu.RUnlock()
		return
	}
	targets := make([]*Client, 0, len(channels))
	for _, c := range channels {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	frame, err := json.Marshal(Event{Type: event, Payload: payload})
	if err != nil {
		log.Printf("gateway: failed to marshal %s event: %v", event, err)
		return
	}

	for _, c := range targets {
		select {
		case c.egress <- frame:
		default:
			log.Printf("gateway: egress full for channel %s (user %s), dropping %s", c.id, userID, event)
		}
	}
}

// Connected reports whether the user has at least one live channel.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Close tears down every live channel, used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	all := make([]*Client, 0)
	for _, channels := range h.clients {
		for _, c := range channels {
			all = append(all, c)
		}
	}
	h.clients = make(map[string]map[string]*Client)
	h.mu.Unlock()

	for _, c := range all {
		c.shutdown()
		if c.conn != nil {
			c.conn.Close()
		}
	}
}
