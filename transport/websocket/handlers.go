package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/paddle"
)

var (
	ErrPlayerRequired  = errors.New("player is required")
	ErrSessionRequired = errors.New("session is required")
	ErrMoveRequired    = errors.New("move is required")
)

// requirePlayer binds the connection to the requesting player so broadcasts reach it.
func (that *Server) requirePlayer(request *RequestPayload, conn *connection) (string, error) {
	if request.Player == nil || request.Player.ID == "" {
		return "", ErrPlayerRequired
	}

	that.register(request.Player.ID, conn)

	return request.Player.ID, nil
}

func (that *Server) requireSession(request *RequestPayload, conn *connection) (string, string, error) {
	playerID, err := that.requirePlayer(request, conn)
	if err != nil {
		return "", "", err
	}

	if request.Session == nil || request.Session.ID == "" {
		return "", "", ErrSessionRequired
	}

	return playerID, request.Session.ID, nil
}

func (that *Server) handleConnect(ctx context.Context, request *RequestPayload, conn *connection) (ResponsePayload, error) {
	log := that.logger.With("method", "handleConnect")

	var id string
	if request.Player != nil {
		id = request.Player.ID
	}

	player, err := that.manager.GetOrCreatePlayer(ctx, id)
	if err != nil {
		return ResponsePayload{}, fmt.Errorf("failed to get or create player: %w", err)
	}

	that.register(player.ID, conn)

	response := ResponsePayload{Player: player}

	if player.SessionID != "" {
		session, err := that.manager.GetSession(ctx, player.SessionID)
		if err == nil {
			response.Session = session
		} else {
			log.Debug("previous session is gone", "sessionID", player.SessionID, "error", err)
		}
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return response, nil
}

func (that *Server) handleNewSession(ctx context.Context, request *RequestPayload, conn *connection) (ResponsePayload, error) {
	playerID, err := that.requirePlayer(request, conn)
	if err != nil {
		return ResponsePayload{}, err
	}

	if request.Session == nil {
		return ResponsePayload{}, ErrSessionRequired
	}

	session, err := that.manager.CreateSession(ctx, request.Session.Kind, playerID, request.Session.WithBot)
	if err != nil {
		return ResponsePayload{}, err
	}

	player, _ := session.PlayerByID(playerID)

	return ResponsePayload{Player: player, Session: session}, nil
}

func (that *Server) handleJoinSession(ctx context.Context, request *RequestPayload, conn *connection) (ResponsePayload, error) {
	playerID, sessionID, err := that.requireSession(request, conn)
	if err != nil {
		return ResponsePayload{}, err
	}

	session, err := that.manager.JoinSession(ctx, sessionID, playerID)
	if err != nil {
		return ResponsePayload{}, err
	}

	player, _ := session.PlayerByID(playerID)

	return ResponsePayload{Player: player, Session: session}, nil
}

func (that *Server) handleDrop(ctx context.Context, request *RequestPayload, conn *connection) (ResponsePayload, error) {
	playerID, sessionID, err := that.requireSession(request, conn)
	if err != nil {
		return ResponsePayload{}, err
	}

	if request.Column == nil {
		return ResponsePayload{}, ErrMoveRequired
	}

	session, err := that.manager.Drop(ctx, sessionID, playerID, *request.Column)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Session: session}, nil
}

func (that *Server) handlePlace(ctx context.Context, request *RequestPayload, conn *connection) (ResponsePayload, error) {
	playerID, sessionID, err := that.requireSession(request, conn)
	if err != nil {
		return ResponsePayload{}, err
	}

	if request.Cell == nil {
		return ResponsePayload{}, ErrMoveRequired
	}

	session, err := that.manager.Place(ctx, sessionID, playerID, *request.Cell)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Session: session}, nil
}

func (that *Server) handlePaddleCommand(ctx context.Context, request *RequestPayload, conn *connection) (ResponsePayload, error) {
	playerID, sessionID, err := that.requireSession(request, conn)
	if err != nil {
		return ResponsePayload{}, err
	}

	session, err := that.manager.PaddleCommand(ctx, sessionID, playerID, request.Command)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Session: session}, nil
}

// handlePaddleInput answers with an empty payload; the next tick broadcast carries the effect.
func (that *Server) handlePaddleInput(_ context.Context, request *RequestPayload, conn *connection) (ResponsePayload, error) {
	playerID, sessionID, err := that.requireSession(request, conn)
	if err != nil {
		return ResponsePayload{}, err
	}

	var input paddle.Input
	if request.Input != nil {
		input = *request.Input
	}

	if err = that.manager.SetInput(sessionID, playerID, request.Side, input); err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{}, nil
}

func (that *Server) handleRestart(ctx context.Context, request *RequestPayload, conn *connection) (ResponsePayload, error) {
	playerID, sessionID, err := that.requireSession(request, conn)
	if err != nil {
		return ResponsePayload{}, err
	}

	session, err := that.manager.Restart(ctx, sessionID, playerID)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Session: session}, nil
}

// handleLeave closes the session and tells the other seat it is over.
func (that *Server) handleLeave(ctx context.Context, request *RequestPayload, conn *connection) (ResponsePayload, error) {
	playerID, sessionID, err := that.requireSession(request, conn)
	if err != nil {
		return ResponsePayload{}, err
	}

	session, err := that.manager.GetSession(ctx, sessionID)
	if err != nil {
		return ResponsePayload{}, err
	}

	if _, ok := session.PlayerByID(playerID); !ok {
		return ResponsePayload{}, fmt.Errorf("%w: %s", apperror.ErrNotInSession, sessionID)
	}

	session, err = that.manager.LeaveSession(ctx, sessionID)
	if err != nil {
		return ResponsePayload{}, err
	}

	for _, player := range session.Humans() {
		if player.ID == playerID {
			continue
		}

		that.connectionsMutex.RLock()
		opponent, ok := that.connections[player.ID]
		that.connectionsMutex.RUnlock()

		if !ok {
			continue
		}

		that.reply(opponent, actionLeave, ResponsePayload{Player: player, Session: session})
	}

	return ResponsePayload{Session: session}, nil
}
