// Package ws pushes library events to connected dashboard clients.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types broadcast to the dashboard.
const (
	MsgFileSaved       = "file.saved"
	MsgFileDeleted     = "file.deleted"
	MsgFileRenamed     = "file.renamed"
	MsgCategoryCreated = "category.created"
	MsgCategoryDeleted = "category.deleted"
)

// Message is a single dashboard event.
type Message struct {
	Type      string    `json:"type"`
	Category  string    `json:"category,omitempty"`
	File      string    `json:"file,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Client represents a WebSocket connection
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

// Hub maintains active clients and broadcasts messages
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan *Message
	Register   chan *Client
	Unregister chan *Client
	Mu         sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan *Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's message processing loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Mu.Lock()
			h.Clients[client] = true
			h.Mu.Unlock()

		case client := <-h.Unregister:
			h.Mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
			h.Mu.Unlock()

		case message := <-h.Broadcast:
			h.Mu.Lock()
			for client := range h.Clients {
				select {
				case client.Send <- mustMarshal(message):
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
			h.Mu.Unlock()
		}
	}
}

// Notify queues an event without blocking the caller. Events are dropped when
// the broadcast buffer is full.
func (h *Hub) Notify(msgType, category, file string) {
	msg := &Message{
		Type:      msgType,
		Category:  category,
		File:      file,
		Timestamp: time.Now(),
	}
	select {
	case h.Broadcast <- msg:
	default:
	}
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return b
}
