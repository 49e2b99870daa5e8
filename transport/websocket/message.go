package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/paddle"
)

const (
	actionConnect       = "connect"
	actionSessionNew    = "session:new"
	actionSessionJoin   = "session:join"
	actionConnectorDrop = "connector:drop"
	actionGridPlace     = "grid:place"
	actionPaddleCommand = "paddle:command"
	actionPaddleInput   = "paddle:input"
	actionRestart       = "session:restart"
	actionLeave         = "session:leave"
	actionUpdate        = "session:update"
	actionError         = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SessionRequest names the session a request refers to, or describes the one to create.
type SessionRequest struct {
	ID      string      `json:"id,omitempty"`
	Kind    entity.Kind `json:"kind,omitempty"`
	WithBot bool        `json:"with_bot,omitempty"`
}

type RequestPayload struct {
	Player  *entity.Player  `json:"player,omitempty"`
	Session *SessionRequest `json:"session,omitempty"`

	Column  *int          `json:"column,omitempty"`
	Cell    *int          `json:"cell,omitempty"`
	Command string        `json:"command,omitempty"`
	Side    paddle.Side   `json:"side,omitempty"`
	Input   *paddle.Input `json:"input,omitempty"`
}

type ResponsePayload struct {
	Player  *entity.Player  `json:"player,omitempty"`
	Session *entity.Session `json:"session,omitempty"`
	Error   string          `json:"error,omitempty"`
}
