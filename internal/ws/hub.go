package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Event is a WebSocket message pushed to order subscribers.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewEvent marshals payload into an Event.
func NewEvent(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: raw}, nil
}

// orderEvent routes an event to one order's room.
type orderEvent struct {
	OrderID string
	Event   Event
}

// Hub keeps the clients watching each order and fans events out to them.
type Hub struct {
	// Registered clients by order ID
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *orderEvent
	// done is closed when Run returns.
	done chan struct{}

	logger *zap.Logger
	mu     sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *orderEvent, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// disconnects every client. Call it as a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for orderID, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, orderID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.orderID] == nil {
				h.rooms[client.orderID] = make(map[*Client]bool)
			}
			h.rooms[client.orderID][client] = true
			h.mu.Unlock()
			h.sendSnapshot(client)

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.logger.Error("marshal ws event", zap.String("type", event.Event.Type), zap.Error(err))
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.OrderID] {
				select {
				case client.send <- message:
				default:
					// Slow consumer.
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// sendSnapshot queues the order's current state for a newly registered
// client. It runs on the Run goroutine after the client joined its room, so
// every later stage change reaches the client after the snapshot.
func (h *Hub) sendSnapshot(client *Client) {
	if client.snapshot == nil {
		return
	}
	ev, ok := client.snapshot(client.orderID)
	if !ok {
		return
	}
	message, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal ws snapshot", zap.String("order_id", client.orderID), zap.Error(err))
		return
	}
	select {
	case client.send <- message:
	default:
	}
}

// remove drops a client and closes its send channel. Caller holds h.mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.rooms[client.orderID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.orderID)
	}
}

// BroadcastToOrder sends an event to every client watching orderID.
// Events sent after Run has stopped are dropped.
func (h *Hub) BroadcastToOrder(orderID string, event Event) {
	select {
	case h.broadcast <- &orderEvent{OrderID: orderID, Event: event}:
	case <-h.done:
	}
}

// Subscribers returns the number of clients watching orderID.
func (h *Hub) Subscribers(orderID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[orderID])
}
