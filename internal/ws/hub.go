package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"GuestFlow/bot/capture"
)

// Event represents one capture-progress event pushed to back-office clients.
type Event struct {
	Type string      `json:"type"` // "step_answered", "capture_complete", "rsvp_update"
	Data interface{} `json:"data"`
}

// Hub maintains the set of active WebSocket clients and broadcasts capture
// progress to them. It implements the progress listener interfaces of the
// capture and RSVP flows.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// StepAnswered broadcasts that a guest answered one checklist question.
func (h *Hub) StepAnswered(registrationID string, step capture.StepID) {
	h.broadcast <- &Event{
		Type: "step_answered",
		Data: map[string]string{
			"registration_id": registrationID,
			"step":            string(step),
		},
	}
}

// CaptureComplete broadcasts that a guest finished the travel checklist.
func (h *Hub) CaptureComplete(registrationID string) {
	h.broadcast <- &Event{
		Type: "capture_complete",
		Data: map[string]string{
			"registration_id": registrationID,
		},
	}
}

// RSVPUpdated broadcasts an RSVP status change.
func (h *Hub) RSVPUpdated(registrationID, status string) {
	h.broadcast <- &Event{
		Type: "rsvp_update",
		Data: map[string]string{
			"registration_id": registrationID,
			"status":          status,
		},
	}
}
