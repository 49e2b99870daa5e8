package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/opponent"
	"github.com/rocketscienceinc/arcade-backend/internal/paddle"
	"github.com/rocketscienceinc/arcade-backend/internal/repository"
	"github.com/rocketscienceinc/arcade-backend/internal/usecase"
	mockedUseCase "github.com/rocketscienceinc/arcade-backend/mocks/usecase"
)

type reply struct {
	Action  string
	Payload ResponsePayload
}

type client struct {
	t    *testing.T
	conn *websocket.Conn
}

func (that *client) send(action string, payload any) {
	that.t.Helper()

	payloadBytes, err := json.Marshal(payload)
	require.NoError(that.t, err)

	body, err := json.Marshal(Message{Action: action, Payload: payloadBytes})
	require.NoError(that.t, err)

	require.NoError(that.t, that.conn.WriteMessage(websocket.TextMessage, body))
}

// await reads messages until one carries action, skipping broadcasts.
func (that *client) await(action string) reply {
	that.t.Helper()

	require.NoError(that.t, that.conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	for {
		_, body, err := that.conn.ReadMessage()
		require.NoError(that.t, err)

		var message Message
		require.NoError(that.t, json.Unmarshal(body, &message))

		if message.Action != action {
			continue
		}

		var payload ResponsePayload
		require.NoError(that.t, json.Unmarshal(message.Payload, &payload))

		return reply{Action: message.Action, Payload: payload}
	}
}

func newTestServer(t *testing.T) *client {
	t.Helper()

	sessionRepo := mockedUseCase.NewMocksessionRepo(t)
	playerRepo := mockedUseCase.NewMockplayerRepo(t)

	sessionRepo.EXPECT().
		CreateOrUpdate(mock.Anything, mock.AnythingOfType("*entity.Session")).
		Return(nil).
		Maybe()
	playerRepo.EXPECT().
		CreateOrUpdate(mock.Anything, mock.AnythingOfType("*entity.Player")).
		Return(nil).
		Maybe()
	playerRepo.EXPECT().
		GetByID(mock.Anything, mock.AnythingOfType("string")).
		Return((*entity.Player)(nil), repository.ErrPlayerNotFound).
		Maybe()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	manager := usecase.NewGameManager(logger, sessionRepo, playerRepo, usecase.Settings{
		Policy:       opponent.First,
		Paddle:       paddle.DefaultConfig(),
		TickInterval: time.Second,
		NewRand:      func() paddle.Rand { return nil },
	})
	t.Cleanup(manager.Close)

	server := New(logger, manager)
	manager.Subscribe(server.Broadcast)

	ctx, cancel := context.WithCancel(context.Background())
	httpServer := httptest.NewServer(server.Handler(ctx))
	t.Cleanup(func() {
		cancel()
		httpServer.Close()
	})

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// the first visit is handed a session cookie with the upgrade
	require.NotEmpty(t, resp.Cookies())
	assert.Equal(t, "user_session", resp.Cookies()[0].Name)

	return &client{t: t, conn: conn}
}

func TestServer_TicTacToeAgainstBot(t *testing.T) {
	// Given: a connected player
	c := newTestServer(t)

	c.send(actionConnect, RequestPayload{Player: &entity.Player{ID: "p1"}})
	connected := c.await(actionConnect)
	require.Empty(t, connected.Payload.Error)
	assert.Equal(t, "p1", connected.Payload.Player.ID)

	// When: they start a tic-tac-toe game against the bot
	c.send(actionSessionNew, RequestPayload{
		Player:  &entity.Player{ID: "p1"},
		Session: &SessionRequest{Kind: entity.KindTicTacToe, WithBot: true},
	})
	created := c.await(actionSessionNew)
	require.Empty(t, created.Payload.Error)
	require.NotNil(t, created.Payload.Session)
	assert.Equal(t, "X", created.Payload.Player.Side)
	sessionID := created.Payload.Session.ID

	// And: place X in the center
	cell := 4
	c.send(actionGridPlace, RequestPayload{
		Player:  &entity.Player{ID: "p1"},
		Session: &SessionRequest{ID: sessionID},
		Cell:    &cell,
	})
	placed := c.await(actionGridPlace)

	// Then: the bot has answered in the lowest free cell
	require.Empty(t, placed.Payload.Error)
	assert.Equal(t, "X", placed.Payload.Session.Grid.Board[4])
	assert.Equal(t, "O", placed.Payload.Session.Grid.Board[0])

	// And: replaying the same cell is refused
	c.send(actionGridPlace, RequestPayload{
		Player:  &entity.Player{ID: "p1"},
		Session: &SessionRequest{ID: sessionID},
		Cell:    &cell,
	})
	refused := c.await(actionGridPlace)
	assert.Contains(t, refused.Payload.Error, "occupied")

	// And: a normal close is answered with a close frame
	require.NoError(t, c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))

	_, _, err := c.conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestServer_BadRequests(t *testing.T) {
	c := newTestServer(t)

	t.Run("Unknown action", func(t *testing.T) {
		c.send("chess:move", RequestPayload{})

		got := c.await("chess:move")
		assert.Equal(t, "unknown action", got.Payload.Error)
	})

	t.Run("Player is required", func(t *testing.T) {
		c.send(actionSessionNew, RequestPayload{Session: &SessionRequest{Kind: entity.KindConnector}})

		got := c.await(actionSessionNew)
		assert.Equal(t, ErrPlayerRequired.Error(), got.Payload.Error)
	})

	t.Run("Move is required", func(t *testing.T) {
		c.send(actionConnectorDrop, RequestPayload{
			Player:  &entity.Player{ID: "p1"},
			Session: &SessionRequest{ID: "s1"},
		})

		got := c.await(actionConnectorDrop)
		assert.Equal(t, ErrMoveRequired.Error(), got.Payload.Error)
	})

	t.Run("Missing session", func(t *testing.T) {
		column := 3
		c.send(actionConnectorDrop, RequestPayload{
			Player:  &entity.Player{ID: "p1"},
			Session: &SessionRequest{ID: "missing"},
			Column:  &column,
		})

		got := c.await(actionConnectorDrop)
		assert.Contains(t, got.Payload.Error, "session not found")
	})
}
