package chat

import (
	"encoding/json"
	"log"

	"arisefit/internal/models"
	"arisefit/internal/repository"
	"arisefit/internal/validation"
)

// Event is the envelope for everything pushed over the websocket: chat
// messages and progression announcements alike.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub fans chat and progression events out to every connected client.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	messages *repository.MessageRepository
}

// NewHub creates the hub. Call Run on its own goroutine before serving
// connections.
func NewHub(messages *repository.MessageRepository) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		messages:   messages,
	}
}

// Run owns the client set until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than block the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		case <-h.done:
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Stop disconnects every client and ends the Run loop.
func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast pushes an event to every connected client. It never blocks the
// caller: if the hub's queue is full the event is dropped.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("Failed to encode %s event: %v", eventType, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Printf("Dropping %s event: broadcast queue full", eventType)
	}
}

// handleIncoming validates, persists and rebroadcasts one chat message from a
// client.
func (h *Hub) handleIncoming(client *Client, raw []byte) {
	var in struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return
	}
	if err := validation.ValidateMessage(in.Content); err != nil {
		return
	}

	msg := &models.Message{
		SenderID:   client.userID,
		SenderName: client.username,
		Content:    in.Content,
	}
	if err := h.messages.CreateMessage(msg); err != nil {
		log.Printf("Failed to persist chat message: %v", err)
		return
	}

	h.Broadcast("chat", msg)
}
