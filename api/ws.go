package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"toolstation/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message types.
const (
	msgInput  = "input"  // client: replace the buffer with Text
	msgApply  = "apply"  // client: run Action
	msgState  = "state"  // server: View after a change
	msgError  = "error"  // server: unreadable client message
	msgClosed = "closed" // server: session killed or reaped
)

type wsMessage struct {
	Type   string          `json:"type"`
	Text   string          `json:"text,omitempty"`
	Action *session.Action `json:"action,omitempty"`
	View   *session.View   `json:"view,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	s, ok := h.ownedSession(r)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// gorilla/websocket forbids concurrent writes.
	var writeMu sync.Mutex
	writeMsg := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	outChan := make(chan session.View, 64)
	kick := s.SetClient(outChan) // kicks any prior client
	defer s.ClearClient(outChan) // closes outChan; clears state if still owner

	// Replay the current state so a reconnecting client picks up where it was.
	initial := s.View()
	if err := writeMsg(wsMessage{Type: msgState, View: &initial}); err != nil {
		return
	}

	// Pump views to the client until ClearClient closes outChan.
	go func() {
		for v := range outChan {
			if err := writeMsg(wsMessage{Type: msgState, View: &v}); err != nil {
				return
			}
		}
	}()

	// Close the connection on session end or displacement so ReadJSON
	// below unblocks.
	connDone := make(chan struct{})
	go func() {
		select {
		case <-s.Done():
			_ = writeMsg(wsMessage{Type: msgClosed})
			conn.Close()
		case <-kick:
			// No "closed" message: the session lives on with the new client.
			conn.Close()
		case <-connDone:
		}
	}()
	defer close(connDone)

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case msgInput:
			s.SetText(msg.Text)
		case msgApply:
			if msg.Action == nil {
				_ = writeMsg(wsMessage{Type: msgError, Error: "apply without action"})
				continue
			}
			s.Apply(r.Context(), *msg.Action)
		default:
			_ = writeMsg(wsMessage{Type: msgError, Error: "unknown message type " + msg.Type})
		}
	}
}
