package server

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"maze-server/config"

	"github.com/gorilla/websocket"
)

// WebSocketClient represents a single connected client.
type WebSocketClient struct {
	conn     *websocket.Conn
	send     chan []byte   // Outgoing frames, drained by WritePump
	clientID string
	done     chan struct{} // Closed when ReadPump exits
	ctx      context.Context
	cancel   context.CancelFunc // Aborts the client's running searches
}

// NewWebSocketClient creates a client whose searches stop when parent does.
func NewWebSocketClient(parent context.Context, conn *websocket.Conn, clientID string) *WebSocketClient {
	ctx, cancel := context.WithCancel(parent)
	return &WebSocketClient{
		conn:     conn,
		send:     make(chan []byte, config.SendBufferSize),
		clientID: clientID,
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ReadPump continuously reads messages from the connection until it fails,
// then unregisters the client and signals WritePump.
func (c *WebSocketClient) ReadPump(hub *Hub) {
	defer func() {
		hub.unregisterClient(c)
		c.cancel()
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(config.MaxMessageBytes)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Client %s: Unexpected WebSocket close error: %v", c.clientID, err)
			}
			break
		}
		hub.handleClientMessage(c, message)
	}
}

// WritePump sends queued messages and periodic pings until the client goes
// away.
func (c *WebSocketClient) WritePump() {
	ticker := time.NewTicker(config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Client %s: Error sending message: %v", c.clientID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Client %s: Error sending ping: %v", c.clientID, err)
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// sendJSON queues v for delivery. Messages to a gone or saturated client are
// dropped.
func (c *WebSocketClient) sendJSON(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		log.Printf("Client %s: ERROR marshaling message: %v", c.clientID, err)
		return
	}
	select {
	case c.send <- msg:
	case <-c.done:
	default:
		log.Printf("WARNING: Client %s send buffer full, dropping message.", c.clientID)
	}
}
