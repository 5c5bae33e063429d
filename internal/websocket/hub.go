package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-helpdesk-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Notification is the payload pushed to clients when a document finishes
// indexing in a scope they can read.
type Notification struct {
	Type       string `json:"type"`
	DocumentId string `json:"document_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Scope      string `json:"scope,omitempty"`
	Message    string `json:"message,omitempty"`
}

type Hub struct {
	// UserID -> connections (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out. May be nil in
	// single-instance deployments.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastScoped pushes a notification to every local connection allowed to
// see the scope, then publishes to Redis so other instances do the same.
// The scope check here mirrors the retrieval filter: a connection without
// the scope never receives the event.
func (h *Hub) BroadcastScoped(scope string, notification Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.deliverScoped(scope, data)

	if h.rdb != nil {
		payload := map[string]interface{}{
			"scope":   scope,
			"message": json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

func (h *Hub) deliverScoped(scope string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for _, client := range clients {
			if !client.CanSee(scope) {
				continue
			}
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": client.UserID})
				close(client.Send)
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

// subscribeToRedis receives scoped events published by sibling instances and
// delivers them to local connections.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			Scope   string          `json:"scope"`
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		h.deliverScoped(payload.Scope, payload.Message)
	}
}
