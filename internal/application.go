package application

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/arcade-backend/internal/config"
	"github.com/rocketscienceinc/arcade-backend/internal/opponent"
	"github.com/rocketscienceinc/arcade-backend/internal/paddle"
	"github.com/rocketscienceinc/arcade-backend/internal/repository"
	"github.com/rocketscienceinc/arcade-backend/internal/repository/storage"
	"github.com/rocketscienceinc/arcade-backend/internal/usecase"
	"github.com/rocketscienceinc/arcade-backend/transport/rest"
	"github.com/rocketscienceinc/arcade-backend/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	redisStorage, err := storage.New(ctx, conf.Redis.StorageOptions())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	playerRepo := repository.NewPlayerRepository(redisStorage)
	sessionRepo := repository.NewSessionRepository(redisStorage, conf.SessionTTL)

	seed := uint64(time.Now().UnixNano())
	manager := usecase.NewGameManager(logger, sessionRepo, playerRepo, usecase.Settings{
		Policy:       opponent.NewRandom(rand.New(rand.NewPCG(seed, seed>>1))),
		Paddle:       conf.Paddle.EngineConfig(),
		TickInterval: conf.Paddle.TickInterval(),
		NewRand: func() paddle.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	})
	defer manager.Close()

	wsServer := websocket.New(logger, manager)
	manager.Subscribe(wsServer.Broadcast)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, logger, conf.HTTPPort, rest.NewRouter(logger, manager)); httpErr != nil {
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Received signal, shutting down")
		return nil
	}
}
