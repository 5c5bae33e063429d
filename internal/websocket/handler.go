package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs wires a new websocket connection into the hub. Scopes come from
// the resolved role of the authenticated user; the hub only ever pushes
// events the connection is allowed to see.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID, scopes []string) {
	scopeSet := make(map[string]struct{}, len(scopes))
	for _, s := range scopes {
		scopeSet[s] = struct{}{}
	}

	client := &Client{
		Hub:    hub,
		Conn:   c,
		UserID: userID,
		Scopes: scopeSet,
		Send:   make(chan []byte, 256),
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // runs in the handler goroutine
}
