package entity

import (
	"fmt"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/connector"
	"github.com/rocketscienceinc/arcade-backend/internal/paddle"
	"github.com/rocketscienceinc/arcade-backend/internal/tictactoe"
)

type Kind string

const (
	KindConnector Kind = "connector"
	KindTicTacToe Kind = "tictactoe"
	KindPaddle    Kind = "paddle"
)

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

// Session is the persisted view of one game instance and its seats.
type Session struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	Status  string    `json:"status"`
	WithBot bool      `json:"with_bot,omitempty"`
	Players []*Player `json:"players,omitempty"`

	Connector *connector.Snapshot `json:"connector,omitempty"`
	Grid      *tictactoe.Snapshot `json:"grid,omitempty"`
	Paddle    *paddle.World       `json:"paddle,omitempty"`
}

func NewSession(id string, kind Kind, withBot bool) *Session {
	return &Session{
		ID:      id,
		Kind:    kind,
		Status:  StatusWaiting,
		WithBot: withBot,
	}
}

// Seats - the two sides of a game kind, in seating order.
func Seats(kind Kind) ([2]string, error) {
	switch kind {
	case KindConnector:
		return [2]string{connector.Red.String(), connector.Yellow.String()}, nil
	case KindTicTacToe:
		return [2]string{tictactoe.PlayerX, tictactoe.PlayerO}, nil
	case KindPaddle:
		return [2]string{string(paddle.SideLeft), string(paddle.SideRight)}, nil
	default:
		return [2]string{}, fmt.Errorf("%w: %q", apperror.ErrUnknownKind, kind)
	}
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Session) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Session) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Session) HasRoom() bool {
	return len(that.Players) < 2
}

func (that *Session) PlayerByID(id string) (*Player, bool) {
	for _, player := range that.Players {
		if player.ID == id {
			return player, true
		}
	}

	return nil, false
}

// Humans - players that have a connection to notify.
func (that *Session) Humans() []*Player {
	humans := make([]*Player, 0, len(that.Players))
	for _, player := range that.Players {
		if !player.IsBot {
			humans = append(humans, player)
		}
	}

	return humans
}
