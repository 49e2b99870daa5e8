package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/testing/suite"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a player seated in a session
	player := &entity.Player{
		ID:        "123",
		Side:      "RED",
		SessionID: "abc",
	}

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, player)

	// Then: no error should be returned, and player is stored
	require.NoError(t, err)

	stored, err := playerRepo.GetByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, player, stored)
}

func TestPlayerRepository_GetByID(t *testing.T) {
	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		nonExistentPlayerID := "9999999"

		// When: GetByID is called with non-existent ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, nonExistentPlayerID)

		// Then: an ErrPlayerNotFound error should be returned
		require.ErrorIs(t, err, ErrPlayerNotFound)
		assert.Nil(t, retrievedPlayer)
	})
}
