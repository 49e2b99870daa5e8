package usecase

import (
	"context"
	"slices"
	"sync"

	"github.com/rocketscienceinc/arcade-backend/internal/connector"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/paddle"
	"github.com/rocketscienceinc/arcade-backend/internal/tictactoe"
)

// liveSession pairs the persisted session record with the engine that owns its state.
// Exactly one of connector, grid and paddle is set. mu serializes every engine call
// and every write of the session to storage.
type liveSession struct {
	mu     sync.Mutex
	closed bool

	session   *entity.Session
	connector *connector.Game
	grid      *tictactoe.Game
	paddle    *paddle.Engine

	stopClock context.CancelFunc
}

// checkpoint is the state of a live session before a change, kept to undo it.
type checkpoint struct {
	session   entity.Session
	connector *connector.Game
	grid      *tictactoe.Game
	paddle    *paddle.Engine
}

func (that *liveSession) checkpoint() checkpoint {
	saved := checkpoint{session: *that.session}
	saved.session.Players = slices.Clone(that.session.Players)

	switch {
	case that.connector != nil:
		saved.connector = that.connector.Clone()
	case that.grid != nil:
		saved.grid = that.grid.Clone()
	case that.paddle != nil:
		saved.paddle = that.paddle.Clone()
	}

	return saved
}

func (that *liveSession) rollback(saved checkpoint) {
	*that.session = saved.session

	switch {
	case that.connector != nil:
		that.connector = saved.connector
	case that.grid != nil:
		that.grid = saved.grid
	case that.paddle != nil:
		that.paddle = saved.paddle
	}
}

// sync copies the engine state into the session record.
func (that *liveSession) sync() {
	switch {
	case that.connector != nil:
		snapshot := that.connector.Snapshot()
		that.session.Connector = &snapshot
		if that.connector.IsFinished() {
			that.session.Status = entity.StatusFinished
		}
	case that.grid != nil:
		snapshot := that.grid.Snapshot()
		that.session.Grid = &snapshot
		if that.grid.IsFinished() {
			that.session.Status = entity.StatusFinished
		}
	case that.paddle != nil:
		world := that.paddle.World()
		that.session.Paddle = &world
		if world.Phase == paddle.PhaseFinished {
			that.session.Status = entity.StatusFinished
		} else {
			that.session.Status = entity.StatusOngoing
		}
	}
}

// snapshot - a copy safe to hand to other goroutines. Engine snapshots are
// replaced on every sync and never mutated, so they are shared.
func (that *liveSession) snapshot() *entity.Session {
	session := *that.session

	session.Players = make([]*entity.Player, 0, len(that.session.Players))
	for _, player := range that.session.Players {
		copied := *player
		session.Players = append(session.Players, &copied)
	}

	return &session
}

// turn - the side expected to move next in a turn-based game.
func (that *liveSession) turn() string {
	switch {
	case that.connector != nil:
		return that.connector.Turn().String()
	case that.grid != nil:
		return that.grid.Turn()
	default:
		return ""
	}
}

func (that *liveSession) engineFinished() bool {
	switch {
	case that.connector != nil:
		return that.connector.IsFinished()
	case that.grid != nil:
		return that.grid.IsFinished()
	case that.paddle != nil:
		return that.paddle.Phase() == paddle.PhaseFinished
	default:
		return false
	}
}

func (that *liveSession) legalMoves() []int {
	switch {
	case that.connector != nil:
		return that.connector.LegalColumns()
	case that.grid != nil:
		return that.grid.LegalCells()
	default:
		return nil
	}
}

// move applies a column drop or cell placement for whoever is to move.
func (that *liveSession) move(index int) error {
	switch {
	case that.connector != nil:
		_, err := that.connector.Drop(index)
		return err
	case that.grid != nil:
		return that.grid.Place(index)
	default:
		return nil
	}
}
