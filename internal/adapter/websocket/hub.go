package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/adapter/queue"
)

// Hub fans queue events out to connected dashboard clients. Clients only
// listen; the read loop exists to notice disconnects.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	log *zap.Logger
	mu  sync.RWMutex
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Event is the envelope pushed to clients, wrapping the raw queue payload.
type Event struct {
	Subject string          `json:"subject"`
	Data    json.RawMessage `json:"data"`
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

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
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast wraps the payload in an Event envelope and pushes it to every
// connected client.
func (h *Hub) Broadcast(subject string, payload []byte) {
	event, err := json.Marshal(Event{Subject: subject, Data: payload})
	if err != nil {
		h.log.Error("Failed to encode websocket event", zap.Error(err))
		return
	}
	h.broadcast <- event
}

// RelayQueue subscribes the hub to the engine's event subjects so dashboard
// clients see computes, decisions and pushes as they happen.
func (h *Hub) RelayQueue(q queue.MessageQueue) error {
	subjects := []string{
		queue.SubjectRecommendationsComputed,
		queue.SubjectDecisionsRecorded,
		queue.SubjectRatesPushed,
	}
	for _, subject := range subjects {
		subject := subject
		if err := q.Subscribe(subject, func(data []byte) error {
			h.Broadcast(subject, data)
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// ClientCount reports connected clients, for the status endpoint.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeClient registers the connection and pumps messages until it drops.
// Call from the fiber websocket handler; blocks for the connection lifetime.
func (h *Hub) ServeClient(conn *websocket.Conn) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256)}
	h.register <- client

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// Hub closed the channel.
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
