package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/connector"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/paddle"
	"github.com/rocketscienceinc/arcade-backend/testing/suite"
)

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage, time.Minute)

	// Given: an ongoing connector session with one drop played
	game := connector.NewGame()
	_, err := game.Drop(3)
	require.NoError(t, err)

	snapshot := game.Snapshot()
	session := entity.NewSession("123", entity.KindConnector, true)
	session.Status = entity.StatusOngoing
	session.Players = []*entity.Player{{ID: "p1", Side: "RED"}, entity.NewBotPlayer("YELLOW")}
	session.Connector = &snapshot

	// When: CreateOrUpdate is called
	err = sessionRepo.CreateOrUpdate(ctx, session)

	// Then: the snapshot is stored with an expiry and reads back intact
	require.NoError(t, err)

	ttl, err := st.Storage.TTL(ctx, "session:123").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	stored, err := sessionRepo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session, stored)
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Paddle", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 0)

		// Given: a paddle session
		world := paddle.New(paddle.DefaultConfig(), nil).World()
		session := entity.NewSession("456", entity.KindPaddle, false)
		session.Paddle = &world

		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: GetByID is called with existing ID
		stored, err := sessionRepo.GetByID(ctx, session.ID)

		// Then: the retrieved session should match the saved one
		require.NoError(t, err)
		assert.Equal(t, session, stored)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 0)

		// When: GetByID is called with non-existent ID
		stored, err := sessionRepo.GetByID(ctx, "9999999")

		// Then: an ErrSessionNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, stored)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 0)

		// Given: a stored session
		session := entity.NewSession("123", entity.KindTicTacToe, false)
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: DeleteByID is called with existing ID
		err := sessionRepo.DeleteByID(ctx, session.ID)

		// Then: no error should be returned and the session is gone
		require.NoError(t, err)

		_, err = sessionRepo.GetByID(ctx, session.ID)
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 0)

		// When: DeleteByID is called with non-existent ID
		err := sessionRepo.DeleteByID(ctx, "9999999")

		// Then: an ErrSessionNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}
