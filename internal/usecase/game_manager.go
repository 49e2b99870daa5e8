package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/connector"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/opponent"
	"github.com/rocketscienceinc/arcade-backend/internal/paddle"
	"github.com/rocketscienceinc/arcade-backend/internal/repository"
	"github.com/rocketscienceinc/arcade-backend/internal/tictactoe"
)

const (
	CommandStart  = "start"
	CommandPause  = "pause"
	CommandResume = "resume"
)

const saveTimeout = 2 * time.Second

// errUnchanged aborts a transaction that turned out to be a no-op.
var errUnchanged = errors.New("nothing changed")

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

// Listener receives a copy of a session every time its state changes.
type Listener func(session *entity.Session)

type Settings struct {
	Policy       opponent.Policy
	Paddle       paddle.Config
	TickInterval time.Duration
	NewRand      func() paddle.Rand
}

// GameManager hosts game sessions: it owns one engine per session, moves for the bot
// and drives the paddle clock.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	playerRepo  playerRepo
	settings    Settings

	ctx    context.Context
	cancel context.CancelFunc
	clocks sync.WaitGroup

	sessionsMutex sync.RWMutex
	sessions      map[string]*liveSession

	listenersMutex sync.RWMutex
	listeners      []Listener
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, playerRepo playerRepo, settings Settings) *GameManager {
	ctx, cancel := context.WithCancel(context.Background())

	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		sessionRepo: sessionRepo,
		playerRepo:  playerRepo,
		settings:    settings,

		ctx:    ctx,
		cancel: cancel,

		sessions: make(map[string]*liveSession),
	}
}

func (that *GameManager) Subscribe(listener Listener) {
	that.listenersMutex.Lock()
	defer that.listenersMutex.Unlock()

	that.listeners = append(that.listeners, listener)
}

func (that *GameManager) publish(session *entity.Session) {
	that.listenersMutex.RLock()
	defer that.listenersMutex.RUnlock()

	for _, listener := range that.listeners {
		listener(session)
	}
}

// Close - stops every paddle clock and waits for them to exit.
func (that *GameManager) Close() {
	that.cancel()
	that.clocks.Wait()
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id != "" {
		player, err := that.playerRepo.GetByID(ctx, id)
		if err == nil {
			return player, nil
		}

		if !errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, fmt.Errorf("failed to get player by id: %w", err)
		}
	} else {
		id = uuid.NewString()
	}

	player := &entity.Player{ID: id}
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) CreateSession(ctx context.Context, kind entity.Kind, playerID string, withBot bool) (*entity.Session, error) {
	seats, err := entity.Seats(kind)
	if err != nil {
		return nil, err
	}

	if withBot && kind == entity.KindPaddle {
		return nil, fmt.Errorf("%w: paddle sessions have no bot", apperror.ErrWrongKind)
	}

	live := &liveSession{session: entity.NewSession(uuid.NewString(), kind, withBot)}

	switch kind {
	case entity.KindConnector:
		live.connector = connector.NewGame()
	case entity.KindTicTacToe:
		live.grid = tictactoe.NewGame()
	case entity.KindPaddle:
		live.paddle = paddle.New(that.settings.Paddle, that.settings.NewRand())
	}

	creator := &entity.Player{ID: playerID, Side: seats[0], SessionID: live.session.ID}
	live.session.Players = []*entity.Player{creator}

	if withBot {
		live.session.Players = append(live.session.Players, entity.NewBotPlayer(seats[1]))
		live.session.Status = entity.StatusOngoing
	}

	live.sync()

	if err = that.playerRepo.CreateOrUpdate(ctx, creator); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	snapshot := live.snapshot()
	if err = that.sessionRepo.CreateOrUpdate(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// held until the creation is published, so no later update overtakes it
	live.mu.Lock()

	that.sessionsMutex.Lock()
	that.sessions[live.session.ID] = live
	that.sessionsMutex.Unlock()

	that.publish(snapshot)

	live.mu.Unlock()

	if live.paddle != nil {
		that.startClock(live)
	}

	that.logger.Info("session created", "sessionID", snapshot.ID, "kind", kind, "withBot", withBot)

	return snapshot, nil
}

func (that *GameManager) JoinSession(ctx context.Context, sessionID, playerID string) (*entity.Session, error) {
	live, err := that.lockLive(sessionID)
	if err != nil {
		return nil, err
	}
	defer live.mu.Unlock()

	if _, ok := live.session.PlayerByID(playerID); ok {
		return live.snapshot(), nil
	}

	if !live.session.HasRoom() {
		return nil, fmt.Errorf("%w: session id %s", apperror.ErrSessionFull, sessionID)
	}

	seats, err := entity.Seats(live.session.Kind)
	if err != nil {
		return nil, err
	}

	player := &entity.Player{ID: playerID, Side: seats[1], SessionID: sessionID}

	session, err := that.transact(ctx, live, func() error {
		live.session.Players = append(live.session.Players, player)
		if !live.session.IsFinished() {
			live.session.Status = entity.StatusOngoing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the seat is taken either way; the player record only serves reconnects
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		that.logger.Error("failed to update player", "method", "JoinSession", "playerID", playerID, "error", err)
	}

	return session, nil
}

// Drop - a connector move by playerID, followed by the bot's reply when the session has one.
func (that *GameManager) Drop(ctx context.Context, sessionID, playerID string, column int) (*entity.Session, error) {
	return that.makeTurn(ctx, sessionID, playerID, entity.KindConnector, column)
}

// Place - a tic-tac-toe move by playerID, followed by the bot's reply when the session has one.
func (that *GameManager) Place(ctx context.Context, sessionID, playerID string, cell int) (*entity.Session, error) {
	return that.makeTurn(ctx, sessionID, playerID, entity.KindTicTacToe, cell)
}

// makeTurn applies the move and the bot's reply as one change: either both are stored
// and published, or the board is left as it was.
func (that *GameManager) makeTurn(ctx context.Context, sessionID, playerID string, kind entity.Kind, move int) (*entity.Session, error) {
	live, err := that.lockLive(sessionID)
	if err != nil {
		return nil, err
	}
	defer live.mu.Unlock()

	if live.session.Kind != kind {
		return nil, fmt.Errorf("%w: session %s is %s", apperror.ErrWrongKind, sessionID, live.session.Kind)
	}

	player, ok := live.session.PlayerByID(playerID)
	if !ok {
		return nil, apperror.ErrNotInSession
	}

	if live.session.IsWaiting() {
		return nil, apperror.ErrGameIsNotStarted
	}

	if !live.engineFinished() && live.turn() != player.Side {
		return nil, apperror.ErrNotYourTurn
	}

	session, err := that.transact(ctx, live, func() error {
		if err := live.move(move); err != nil {
			return fmt.Errorf("failed to make turn: %w", err)
		}

		if live.session.WithBot && !live.engineFinished() {
			return that.botTurn(live)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if session.IsFinished() {
		that.logger.Info("game finished", "sessionID", sessionID, "kind", kind)
	}

	return session, nil
}

func (that *GameManager) botTurn(live *liveSession) error {
	move, err := that.settings.Policy.Choose(live.legalMoves())
	if err != nil {
		return fmt.Errorf("bot failed to choose a move: %w", err)
	}

	if err = live.move(move); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}

// Restart - a fresh round in the same session with the same seats.
func (that *GameManager) Restart(ctx context.Context, sessionID, playerID string) (*entity.Session, error) {
	live, err := that.lockLive(sessionID)
	if err != nil {
		return nil, err
	}
	defer live.mu.Unlock()

	if _, ok := live.session.PlayerByID(playerID); !ok {
		return nil, apperror.ErrNotInSession
	}

	return that.transact(ctx, live, func() error {
		switch {
		case live.connector != nil:
			live.connector.Reset()
		case live.grid != nil:
			live.grid.Reset()
		case live.paddle != nil:
			live.paddle.Start()
		}

		switch {
		case live.paddle != nil:
		case live.session.HasRoom():
			live.session.Status = entity.StatusWaiting
		default:
			live.session.Status = entity.StatusOngoing
		}

		return nil
	})
}

// PaddleCommand - start, pause or resume a paddle match. Redundant commands change nothing.
func (that *GameManager) PaddleCommand(ctx context.Context, sessionID, playerID, command string) (*entity.Session, error) {
	live, err := that.lockPaddle(sessionID)
	if err != nil {
		return nil, err
	}
	defer live.mu.Unlock()

	if _, ok := live.session.PlayerByID(playerID); !ok {
		return nil, apperror.ErrNotInSession
	}

	var apply func() bool

	switch command {
	case CommandStart:
		apply = live.paddle.Start
	case CommandPause:
		apply = live.paddle.Pause
	case CommandResume:
		apply = live.paddle.Resume
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownCommand, command)
	}

	session, err := that.transact(ctx, live, func() error {
		if !apply() {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		that.logger.Debug("paddle command ignored", "sessionID", sessionID, "command", command, "phase", live.paddle.Phase())
		return live.snapshot(), nil
	}

	return session, err
}

// SetInput - latches key state for a paddle. side may be empty to mean the player's own seat;
// a player may also drive the other paddle while that seat is empty, for local play.
func (that *GameManager) SetInput(sessionID, playerID string, side paddle.Side, input paddle.Input) error {
	live, err := that.lockPaddle(sessionID)
	if err != nil {
		return err
	}
	defer live.mu.Unlock()

	player, ok := live.session.PlayerByID(playerID)
	if !ok {
		return apperror.ErrNotInSession
	}

	own := paddle.Side(player.Side)
	if side == paddle.SideNone {
		side = own
	}

	if side != own && !live.session.HasRoom() {
		return fmt.Errorf("%w: %s paddle", apperror.ErrSeatTaken, side)
	}

	live.paddle.SetInput(side, input)

	return nil
}

// GetSession - the live state when this process hosts the session, otherwise the stored snapshot.
func (that *GameManager) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	live, err := that.lockLive(sessionID)
	if err == nil {
		defer live.mu.Unlock()

		return live.snapshot(), nil
	}

	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// LeaveSession - ends the session for everyone and frees the seats.
// The record is deleted under the session lock, so no later tick or move can store it again.
func (that *GameManager) LeaveSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	log := that.logger.With("method", "LeaveSession", "sessionID", sessionID)

	that.sessionsMutex.Lock()
	live, ok := that.sessions[sessionID]
	delete(that.sessions, sessionID)
	that.sessionsMutex.Unlock()

	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	live.mu.Lock()

	live.closed = true
	if live.stopClock != nil {
		live.stopClock()
	}

	snapshot := live.snapshot()

	if err := that.sessionRepo.DeleteByID(ctx, sessionID); err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
		log.Error("failed to delete session", "error", err)
	}

	live.mu.Unlock()

	for _, player := range snapshot.Humans() {
		if err := that.playerRepo.CreateOrUpdate(ctx, &entity.Player{ID: player.ID}); err != nil {
			log.Error("failed to update player", "playerID", player.ID, "error", err)
		}
	}

	log.Info("session closed")

	return snapshot, nil
}

// transact applies change, then stores and publishes the result. If change or the
// store fails, the session is restored to where it was. Callers hold live.mu.
func (that *GameManager) transact(ctx context.Context, live *liveSession, change func() error) (*entity.Session, error) {
	saved := live.checkpoint()

	if err := change(); err != nil {
		live.rollback(saved)
		return nil, err
	}

	live.sync()
	snapshot := live.snapshot()

	if err := that.sessionRepo.CreateOrUpdate(ctx, snapshot); err != nil {
		live.rollback(saved)
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	that.publish(snapshot)

	return snapshot, nil
}

// lockLive returns the session with its lock held. A session closed while the caller
// waited for the lock is reported as not found.
func (that *GameManager) lockLive(sessionID string) (*liveSession, error) {
	that.sessionsMutex.RLock()
	live, ok := that.sessions[sessionID]
	that.sessionsMutex.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}

	live.mu.Lock()

	if live.closed {
		live.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}

	return live, nil
}

func (that *GameManager) lockPaddle(sessionID string) (*liveSession, error) {
	live, err := that.lockLive(sessionID)
	if err != nil {
		return nil, err
	}

	if live.paddle == nil {
		live.mu.Unlock()
		return nil, fmt.Errorf("%w: session %s is not a paddle game", apperror.ErrWrongKind, sessionID)
	}

	return live, nil
}
