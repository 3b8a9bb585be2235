package server

import (
	"encoding/json"
	"log"

	"maze-server/maze"
	"maze-server/solve"
)

// Message types
const (
	msgSolve         = "solve"
	msgCompare       = "compare"
	msgListMazes     = "list_mazes"
	msgWelcome       = "welcome"
	msgSolveResult   = "solve_result"
	msgCompareResult = "compare_result"
	msgMazes         = "mazes"
	msgError         = "error"
)

// clientMessage is an inbound frame. Search fields sit next to the type.
type clientMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	solve.Request
}

// serverMessage is an outbound frame.
type serverMessage struct {
	Type       string            `json:"type"`
	RequestID  string            `json:"request_id,omitempty"`
	ClientID   string            `json:"client_id,omitempty"`
	Result     *solve.Response   `json:"result,omitempty"`
	Comparison *solve.Comparison `json:"comparison,omitempty"`
	Mazes      []maze.Summary    `json:"mazes,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// handleClientMessage dispatches one inbound frame. Searches run on their own
// goroutine so the read loop keeps answering pings.
func (h *Hub) handleClientMessage(client *WebSocketClient, message []byte) {
	var msg clientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Client %s: ERROR unmarshaling incoming message: %v", client.clientID, err)
		client.sendJSON(serverMessage{Type: msgError, Error: "malformed message: " + err.Error()})
		return
	}

	switch msg.Type {
	case msgSolve, msgCompare:
		if !h.startSearch() {
			return
		}
		go func() {
			defer h.searches.Done()
			h.processSearch(client, msg)
		}()
	case msgListMazes:
		entries := h.svc.Store().List()
		mazes := make([]maze.Summary, 0, len(entries))
		for _, e := range entries {
			mazes = append(mazes, e.Summary(false))
		}
		client.sendJSON(serverMessage{Type: msgMazes, RequestID: msg.RequestID, Mazes: mazes})
	default:
		log.Printf("Client %s: WARNING unknown message type '%s'.", client.clientID, msg.Type)
		client.sendJSON(serverMessage{Type: msgError, RequestID: msg.RequestID, Error: "unknown message type: " + msg.Type})
	}
}

func (h *Hub) processSearch(client *WebSocketClient, msg clientMessage) {
	out := serverMessage{RequestID: msg.RequestID}
	var err error
	if msg.Type == msgSolve {
		out.Type = msgSolveResult
		out.Result, err = h.svc.Solve(client.ctx, msg.Request)
	} else {
		out.Type = msgCompareResult
		out.Comparison, err = h.svc.Compare(client.ctx, msg.Request)
	}
	if err != nil {
		if client.ctx.Err() != nil {
			return
		}
		if !solve.IsClientError(err) {
			log.Printf("Client %s: ERROR running %s: %v", client.clientID, msg.Type, err)
		}
		out = serverMessage{Type: msgError, RequestID: msg.RequestID, Error: err.Error()}
	}
	client.sendJSON(out)
}
