package apperror

import "errors"

var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrColumnFull       = errors.New("column is full")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFull     = errors.New("session already has two players")
	ErrNotInSession    = errors.New("player is not in this session")
	ErrUnknownKind     = errors.New("unknown game kind")
	ErrWrongKind       = errors.New("operation does not match game kind")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrSeatTaken       = errors.New("seat is taken by another player")
)
