package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Event is the envelope for every message pushed to subscribers.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Event types pushed over the leaderboard stream.
const (
	EventLeaderboardUpdated = "leaderboard:updated"
	EventRanksRecomputed    = "leaderboard:ranks_recomputed"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Leaderboard updates are public data, no origin restriction.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub maintains the set of active clients and broadcasts leaderboard
// events to them. All client set mutations go through the run loop.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes register, unregister and broadcast requests until Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[WS] Client connected: %s (total: %d)", client.ConnectionID, len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("[WS] Client disconnected: %s (total: %d)", client.ConnectionID, len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop the connection.
					delete(h.clients, client)
					close(client.send)
					log.Printf("[WS] Dropped slow client %s", client.ConnectionID)
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

// Stop shuts down the run loop and disconnects all clients.
func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast serializes an event and queues it for every client.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	event := Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WS] Failed to marshal event %q: %v", eventType, err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		log.Printf("[WS] Broadcast buffer full, dropping event %q", eventType)
	}
}

// LeaderboardUpdated notifies subscribers that a contest leaderboard
// changed after a new submission.
func (h *Hub) LeaderboardUpdated(contestID uint) {
	h.Broadcast(EventLeaderboardUpdated, gin.H{"contest_id": contestID})
}

// RanksRecomputed notifies subscribers that ranks were rebuilt for a
// contest.
func (h *Hub) RanksRecomputed(contestID uint) {
	h.Broadcast(EventRanksRecomputed, gin.H{"contest_id": contestID})
}

// HandleConnection upgrades the HTTP request and starts the client
// pumps. Anonymous connections are allowed, the stream is read-only.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}

	var userID uint
	if v, exists := c.Get("user_id"); exists {
		userID = v.(uint)
	}

	client := NewClient(h, conn, userID)
	h.register <- client

	go client.writePump()
	go client.readPump()
}
