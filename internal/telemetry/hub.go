package telemetry

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	writeWait         = 1 * time.Second
	publishResolution = 50 * time.Millisecond
)

// Hub fans out telemetry records to zero or more websocket subscribers
// at /ws/telemetry. Subscribers are dropped on write failure rather
// than allowed to block publication.
type Hub struct {
	mu   sync.Mutex
	subs map[*websocket.Conn]chan Record
}

// NewHub returns an empty telemetry broadcast hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*websocket.Conn]chan Record)}
}

// Publish fans rec out to every current subscriber without blocking;
// a subscriber whose outgoing buffer is full misses the record.
func (h *Hub) Publish(rec Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- rec:
		default:
		}
	}
}

// ServeWS upgrades the request to a websocket and streams published
// records to it until the client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[telemetry] ws upgrade: %v", err)
		return
	}
	defer ws.Close()

	ch := make(chan Record, 16)
	h.mu.Lock()
	h.subs[ws] = ch
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.subs, ws)
		h.mu.Unlock()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	last := time.Now()
	for {
		select {
		case <-done:
			return
		case rec := <-ch:
			if time.Since(last) < publishResolution {
				continue
			}
			last = time.Now()
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(rec); err != nil {
				return
			}
		}
	}
}
