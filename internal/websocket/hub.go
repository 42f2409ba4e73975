package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"ai-hub-be/internal/eventbus"
	"ai-hub-be/internal/pkg/logger"
)

// envelope is the frame every client receives: a type tag plus the raw
// event payload.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Hub fans bus events out to every connected client. The hub state is
// client-agnostic: all clients see the same stream of state-changed and
// stream-update frames and refetch the snapshot on their own.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	bus    *eventbus.Bus
	logger logger.ILogger
}

func NewHub(bus *eventbus.Bus, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		bus:        bus,
		logger:     log,
	}
}

// Run owns the client set and forwards bus events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	go h.forward(ctx, eventbus.TopicStateChanged, "stateChanged")
	go h.forward(ctx, eventbus.TopicStreamUpdate, "streamUpdate")

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("hub", "client registered", map[string]interface{}{
				"subject": client.Subject,
				"clients": h.clientCount(),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			h.logger.Info("hub", "client unregistered", map[string]interface{}{
				"subject": client.Subject,
			})
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// forward consumes one bus topic and broadcasts each message wrapped in a
// typed envelope.
func (h *Hub) forward(ctx context.Context, topic, frameType string) {
	messages, err := h.bus.Subscribe(ctx, topic)
	if err != nil {
		h.logger.Error("hub", "failed to subscribe to topic", map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		})
		return
	}
	for msg := range messages {
		frame, err := json.Marshal(envelope{Type: frameType, Data: json.RawMessage(msg.Payload)})
		if err != nil {
			msg.Ack()
			continue
		}
		h.broadcast(frame)
		msg.Ack()
	}
}

func (h *Hub) broadcast(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- frame:
		default:
			// Slow consumer, drop the frame. The client refetches state on
			// the next frame it does receive.
			h.logger.Warn("hub", "client send buffer full, dropping frame", map[string]interface{}{
				"subject": client.Subject,
			})
		}
	}
}
