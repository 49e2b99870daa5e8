package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 5 * time.Second
	maxPayload   = 1 << 20
)

// connection serializes writes: replies and paddle clock broadcasts arrive from different goroutines.
type connection struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newConnection(conn *websocket.Conn) *connection {
	conn.SetReadLimit(maxPayload)

	return &connection{conn: conn}
}

func (that *connection) send(action string, payload ResponsePayload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	responseBytes, err := json.Marshal(Message{Action: action, Payload: payloadBytes})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	// a stalled reader must not hold up the session that is broadcasting
	_ = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	if err = that.conn.WriteMessage(websocket.TextMessage, responseBytes); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// readMessage returns the next data message. Pings and close frames are answered
// by the library's default handlers.
func (that *connection) readMessage() ([]byte, error) {
	_, message, err := that.conn.ReadMessage()
	return message, err
}

func (that *connection) close() error {
	return that.conn.Close()
}
