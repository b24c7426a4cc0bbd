package api

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin filtering happens in the CORS layer; the token check in
	// AuthMiddleware gates the upgrade itself.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveWS upgrades the connection and joins the user's live channel.
// Blocks for the lifetime of the connection.
func (h *Handlers) serveWS(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("api: websocket upgrade failed for %s: %v", p.UserID, err)
		return
	}

	client := h.hub.Join(p.UserID, conn)
	client.Run()
}
