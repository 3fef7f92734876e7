package watch

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/quickrest/items-api/internal/service/feed"
	"github.com/quickrest/items-api/pkg/utils"
)

// Handler streams item change events to clients over SSE and WebSocket.
type Handler struct {
	feed      *feed.Broadcaster
	heartbeat time.Duration
	upgrader  websocket.Upgrader
}

// New creates the watch handler.
func New(broadcaster *feed.Broadcaster, heartbeat time.Duration) *Handler {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &Handler{
		feed:      broadcaster,
		heartbeat: heartbeat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the streaming routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/items/events", h.handleEvents)
	r.Get("/ws/items", h.handleWebSocket)
}

// handleEvents serves the SSE stream. Heartbeats keep idle connections from
// being reaped by proxies while no items change.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	events, cancel := h.feed.Subscribe()
	defer cancel()

	ctx := r.Context()
	log.Printf("[sse] opening item event stream for %s", r.RemoteAddr)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	utils.SendSSEChunk(w, flusher, map[string]string{
		"event":   "status",
		"message": "stream established",
	})

	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] closing item event stream for %s", r.RemoteAddr)
			return
		case evt, open := <-events:
			if !open {
				return
			}
			utils.SendSSEEvent(w, flusher, "item", evt)
		case t := <-ticker.C:
			utils.SendSSEChunk(w, flusher, map[string]string{
				"event": "heartbeat",
				"time":  t.UTC().Format(time.RFC3339),
			})
		}
	}
}

// handleWebSocket serves the same event stream over a websocket connection.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := h.feed.Subscribe()
	defer cancel()

	// Drain client frames so close handshakes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Printf("[ws] item watch connected from %s", r.RemoteAddr)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case evt, open := <-events:
			if !open {
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				log.Printf("[ws] write failed: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
