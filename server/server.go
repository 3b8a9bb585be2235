// Package server exposes the solver over websockets. Each connection may run
// several searches at once; results come back tagged with the request id.
package server

import (
	"context"
	"log"
	"net/http"
	"sync"

	"maze-server/solve"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub manages websocket connections.
type Hub struct {
	upgrader     websocket.Upgrader
	svc          *solve.Service
	clients      map[*WebSocketClient]bool
	clientsMutex sync.RWMutex
	closing      bool           // Set by Shutdown under clientsMutex
	searches     sync.WaitGroup // In-flight searches across all clients
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewHub initializes a hub answering with svc.
func NewHub(svc *solve.Service) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(svc.Config().CORSOrigins),
		},
		svc:     svc,
		clients: make(map[*WebSocketClient]bool),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// originChecker accepts browsers from the configured CORS origins. "*" or an
// empty list allows every origin.
func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(allowed) == 0 || origin == "" || allowed[origin]
	}
}

// HandleConnections upgrades HTTP requests to websocket connections.
func (h *Hub) HandleConnections(w http.ResponseWriter, r *http.Request) {
	if h.ctx.Err() != nil {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewWebSocketClient(h.ctx, conn, uuid.New().String())

	// The welcome frame goes out before the pumps start so it is always first.
	welcome := serverMessage{Type: msgWelcome, ClientID: client.clientID}
	if err := conn.WriteJSON(welcome); err != nil {
		log.Printf("ERROR: Failed to send welcome to client %s: %v. Disconnecting.", client.clientID, err)
		client.cancel()
		conn.Close()
		return
	}

	h.registerClient(client)
	go client.WritePump()
	go client.ReadPump(h)
}

// startSearch reserves a slot for a search goroutine. It fails once Shutdown
// has begun.
func (h *Hub) startSearch() bool {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	if h.closing {
		return false
	}
	h.searches.Add(1)
	return true
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *WebSocketClient) {
	h.clientsMutex.Lock()
	h.clients[client] = true
	h.clientsMutex.Unlock()
	log.Printf("Client %s (ID: %s) registered.", client.conn.RemoteAddr(), client.clientID)
}

func (h *Hub) unregisterClient(client *WebSocketClient) {
	h.clientsMutex.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	h.clientsMutex.Unlock()
	if ok {
		log.Printf("Client %s (ID: %s) unregistered.", client.conn.RemoteAddr(), client.clientID)
	}
}

// Shutdown cancels running searches, closes every connection and waits for
// the search goroutines to return or ctx to expire.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.cancel()

	h.clientsMutex.Lock()
	h.closing = true
	for client := range h.clients {
		client.conn.Close()
	}
	h.clientsMutex.Unlock()

	finished := make(chan struct{})
	go func() {
		h.searches.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
