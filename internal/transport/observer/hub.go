// Package observer serves a read-only WebSocket feed of metrics snapshots.
// The feed is strictly separate from the sidecar's protocol stream: slow or
// dead observers are dropped, never allowed to block the engine loop.
package observer

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const sendBuffer = 16

type Hub struct {
	log      *log.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]chan []byte
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 32 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // local tooling
		},
		conns: make(map[*websocket.Conn]chan []byte),
	}
}

// Handler upgrades an observer connection and streams broadcasts to it.
func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		out := make(chan []byte, sendBuffer)

		h.mu.Lock()
		h.conns[conn] = out
		n := len(h.conns)
		h.mu.Unlock()
		h.log.Printf("observer connected (%d total)", n)

		// Writer: drains the send queue until the connection drops.
		go func() {
			for b := range out {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					h.drop(conn)
					return
				}
			}
			_ = conn.Close()
		}()

		// Reader: observers send nothing; this just detects closes.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}
}

// Broadcast queues v (JSON-encoded once) to every observer. Observers whose
// queue is full are dropped.
func (h *Hub) Broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Printf("observer encode: %v", err)
		return
	}

	h.mu.Lock()
	var dead []*websocket.Conn
	for conn, out := range h.conns {
		select {
		case out <- b:
		default:
			dead = append(dead, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range dead {
		h.drop(conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	out, ok := h.conns[conn]
	if ok {
		delete(h.conns, conn)
	}
	n := len(h.conns)
	h.mu.Unlock()
	if !ok {
		return
	}
	close(out)
	_ = conn.Close()
	h.log.Printf("observer dropped (%d left)", n)
}
