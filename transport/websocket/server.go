package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/paddle"
	"github.com/rocketscienceinc/arcade-backend/internal/pkg"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)

	CreateSession(ctx context.Context, kind entity.Kind, playerID string, withBot bool) (*entity.Session, error)
	JoinSession(ctx context.Context, sessionID, playerID string) (*entity.Session, error)
	LeaveSession(ctx context.Context, sessionID string) (*entity.Session, error)
	Restart(ctx context.Context, sessionID, playerID string) (*entity.Session, error)

	Drop(ctx context.Context, sessionID, playerID string, column int) (*entity.Session, error)
	Place(ctx context.Context, sessionID, playerID string, cell int) (*entity.Session, error)

	PaddleCommand(ctx context.Context, sessionID, playerID, command string) (*entity.Session, error)
	SetInput(sessionID, playerID string, side paddle.Side, input paddle.Input) error
}

type handlerFunc func(ctx context.Context, request *RequestPayload, conn *connection) (ResponsePayload, error)

type Server struct {
	logger   *slog.Logger
	manager  gameManager
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	connectionsMutex sync.RWMutex
	connections      map[string]*connection
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,

		upgrader: websocket.Upgrader{
			// browsers connect from the frontend's own origin
			CheckOrigin: func(*http.Request) bool { return true },
		},

		connections: make(map[string]*connection),
	}

	server.handlers = map[string]handlerFunc{
		actionConnect:       server.handleConnect,
		actionSessionNew:    server.handleNewSession,
		actionSessionJoin:   server.handleJoinSession,
		actionConnectorDrop: server.handleDrop,
		actionGridPlace:     server.handlePlace,
		actionPaddleCommand: server.handlePaddleCommand,
		actionPaddleInput:   server.handlePaddleInput,
		actionRestart:       server.handleRestart,
		actionLeave:         server.handleLeave,
	}

	return server
}

// Handler - serves the WebSocket endpoint; connections live until ctx is done or the client leaves.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	wsConn, err := that.upgrader.Upgrade(writer, req, sessionCookieHeader(req))
	if err != nil {
		// the upgrader has already answered with an HTTP error
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(wsConn)
	defer that.handleDisconnect(conn)

	log.Info("WebSocket connection established", "remote", wsConn.RemoteAddr().String())

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it goes away.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		reqBody, err := conn.readMessage()
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.reply(conn, actionError, ResponsePayload{Error: "malformed message"})
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.reply(conn, message.Action, ResponsePayload{Error: "unknown action"})
			continue
		}

		var request RequestPayload
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &request); err != nil {
				that.reply(conn, message.Action, ResponsePayload{Error: "malformed payload"})
				continue
			}
		}

		response, err := handler(ctx, &request, conn)
		if err != nil {
			log.Debug("request rejected", "action", message.Action, "error", err)
			response = ResponsePayload{Error: err.Error()}
		}

		that.reply(conn, message.Action, response)
	}
}

func (that *Server) reply(conn *connection, action string, payload ResponsePayload) {
	if err := conn.send(action, payload); err != nil {
		that.logger.Error("failed to send response", "action", action, "error", err)
	}
}

// Broadcast - sends a session update to every connected human seated in it.
func (that *Server) Broadcast(session *entity.Session) {
	for _, player := range session.Humans() {
		that.connectionsMutex.RLock()
		conn, ok := that.connections[player.ID]
		that.connectionsMutex.RUnlock()

		if !ok {
			continue
		}

		if err := conn.send(actionUpdate, ResponsePayload{Player: player, Session: session}); err != nil {
			that.logger.Warn("failed to send session update", "playerID", player.ID, "sessionID", session.ID, "error", err)
		}
	}
}

func (that *Server) register(playerID string, conn *connection) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	that.connections[playerID] = conn
}

func (that *Server) handleDisconnect(conn *connection) {
	log := that.logger.With("method", "handleDisconnect")

	that.connectionsMutex.Lock()
	for playerID, registered := range that.connections {
		if registered == conn {
			delete(that.connections, playerID)
			log.Info("player disconnected", "playerID", playerID)
		}
	}
	that.connectionsMutex.Unlock()

	if err := conn.close(); err != nil {
		log.Debug("failed to close connection", "error", err)
	}
}

// sessionCookieHeader - hands out a user_session cookie with the upgrade response
// unless the browser already has one.
func sessionCookieHeader(req *http.Request) http.Header {
	if _, err := req.Cookie("user_session"); err == nil {
		return nil
	}

	cookie := &http.Cookie{
		Name:    "user_session",
		Value:   pkg.GenerateNewSessionID(),
		Expires: time.Now().Add(24 * time.Hour),
		Path:    "/ws",
	}

	return http.Header{"Set-Cookie": []string{cookie.String()}}
}
