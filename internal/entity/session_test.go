package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
)

func TestSessionStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when session status is finished", func(t *testing.T) {
		// Given: a session with StatusFinished
		session := &Session{Status: StatusFinished}

		// Then: it should report finished only
		assert.True(t, session.IsFinished())
		assert.False(t, session.IsOngoing())
		assert.False(t, session.IsWaiting())
	})

	t.Run("New session is waiting", func(t *testing.T) {
		// When: a new session is created
		session := NewSession("123", KindPaddle, false)

		// Then: it waits for players
		assert.True(t, session.IsWaiting())
		assert.True(t, session.HasRoom())
		assert.Equal(t, KindPaddle, session.Kind)
	})
}

func TestSeats(t *testing.T) {
	t.Run("Known kinds", func(t *testing.T) {
		seats, err := Seats(KindConnector)
		require.NoError(t, err)
		assert.Equal(t, [2]string{"RED", "YELLOW"}, seats)

		seats, err = Seats(KindTicTacToe)
		require.NoError(t, err)
		assert.Equal(t, [2]string{"X", "O"}, seats)

		seats, err = Seats(KindPaddle)
		require.NoError(t, err)
		assert.Equal(t, [2]string{"left", "right"}, seats)
	})

	t.Run("Unknown kind", func(t *testing.T) {
		_, err := Seats("chess")

		assert.ErrorIs(t, err, apperror.ErrUnknownKind)
	})
}

func TestSession_Players(t *testing.T) {
	// Given: a session with one human and a bot
	session := NewSession("123", KindTicTacToe, true)
	session.Players = []*Player{{ID: "p1", Side: "X"}, NewBotPlayer("O")}

	// When: looking players up
	player, ok := session.PlayerByID("p1")

	// Then: lookups and filters behave
	require.True(t, ok)
	assert.Equal(t, "X", player.Side)

	_, ok = session.PlayerByID("nobody")
	assert.False(t, ok)

	assert.False(t, session.HasRoom())
	assert.Equal(t, []*Player{{ID: "p1", Side: "X"}}, session.Humans())
}
