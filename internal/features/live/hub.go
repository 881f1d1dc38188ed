package live

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// messageWriter is the slice of a websocket connection the hub writes to.
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// Hub fans change events out to connected dashboard clients. Publish never
// blocks the caller: each client has a bounded queue and slow clients are
// dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[messageWriter]chan []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[messageWriter]chan []byte)}
}

// Publish broadcasts one event envelope to every connected client.
func (h *Hub) Publish(event string, payload any) {
	msg, err := json.Marshal(map[string]any{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		log.Println("live hub: marshal event:", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, queue := range h.clients {
		select {
		case queue <- msg:
		default:
			// Client is not keeping up; drop it rather than stall the store.
			close(queue)
			delete(h.clients, conn)
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(conn messageWriter) chan []byte {
	queue := make(chan []byte, 64)
	h.mu.Lock()
	h.clients[conn] = queue
	h.mu.Unlock()

	go func() {
		for msg := range queue {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Println("live hub write:", err)
				h.unregister(conn)
				return
			}
		}
	}()

	return queue
}

func (h *Hub) unregister(conn messageWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if queue, ok := h.clients[conn]; ok {
		close(queue)
		delete(h.clients, conn)
	}
}
