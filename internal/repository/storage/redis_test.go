package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/arcade-backend/internal/repository/storage"
	"github.com/rocketscienceinc/arcade-backend/testing/suite"
)

func TestNew(t *testing.T) {
	t.Run("Empty address", func(t *testing.T) {
		client, err := storage.New(context.Background(), storage.Options{})

		require.ErrorIs(t, err, storage.ErrEmptyAddr)
		assert.Nil(t, client)
	})

	t.Run("Nothing listens on the address", func(t *testing.T) {
		// Given: a port with no redis behind it
		opts := storage.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond}

		// When: connecting
		client, err := storage.New(context.Background(), opts)

		// Then: the failure names the address and no client is handed out
		require.Error(t, err)
		assert.Contains(t, err.Error(), "127.0.0.1:1")
		assert.Nil(t, client)
	})

	t.Run("Connects to a running redis", func(t *testing.T) {
		ctx, st := suite.New(t)

		// When: connecting to the container the suite started
		client, err := storage.New(ctx, storage.Options{Addr: st.Storage.Options().Addr})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		// Then: the client talks to the same server
		require.NoError(t, st.Storage.Set(ctx, "ping", "pong", time.Minute).Err())
		value, err := client.Get(ctx, "ping").Result()
		require.NoError(t, err)
		assert.Equal(t, "pong", value)
	})
}
