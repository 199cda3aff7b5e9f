package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"barberqueue-backend/models"

	"github.com/google/uuid"
	"github.com/igm/sockjs-go/sockjs"
)

// ServingEvent is pushed to display boards after each accepted advance.
type ServingEvent struct {
	Type       string `json:"type"`
	NowServing int    `json:"nowServing"`
	LastTicket int    `json:"lastTicket"`
}

type Client struct {
	ID   string
	Send chan []byte
}

// Hub fans serving updates out to connected board clients. Slow clients drop
// messages instead of blocking the publisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	last    []byte
}

func New() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	if h.last != nil {
		select {
		case client.Send <- h.last:
		default:
		}
	}
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = payload
	for _, client := range h.clients {
		select {
		case client.Send <- payload:
		default:
			log.Printf("drop message for client %s", client.ID)
		}
	}
}

// PublishServing implements services.Broadcaster.
func (h *Hub) PublishServing(state models.ServingState) {
	payload, err := json.Marshal(ServingEvent{
		Type:       "serving",
		NowServing: state.NowServing,
		LastTicket: state.LastTicket,
	})
	if err != nil {
		log.Printf("encode serving event: %v", err)
		return
	}
	h.Broadcast(payload)
}

// Handler serves the sockjs endpoint under prefix. Clients only receive.
func (h *Hub) Handler(prefix string) http.Handler {
	return sockjs.NewHandler(prefix, sockjs.DefaultOptions, func(session sockjs.Session) {
		client := &Client{ID: uuid.NewString(), Send: make(chan []byte, 16)}
		h.Register(client)
		defer h.Unregister(client)

		go func() {
			for msg := range client.Send {
				_ = session.Send(string(msg))
			}
		}()

		for {
			if _, err := session.Recv(); err != nil {
				return
			}
		}
	})
}
