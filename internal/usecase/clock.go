package usecase

import (
	"context"
	"time"

	"github.com/rocketscienceinc/arcade-backend/internal/paddle"
)

// startClock runs the fixed-step loop of a paddle session until the session is
// closed or the manager shuts down.
func (that *GameManager) startClock(live *liveSession) {
	ctx, cancel := context.WithCancel(that.ctx)

	live.mu.Lock()
	if live.closed {
		live.mu.Unlock()
		cancel()
		return
	}
	live.stopClock = cancel
	live.mu.Unlock()

	that.clocks.Add(1)

	go func() {
		defer that.clocks.Done()

		that.runClock(ctx, live)
	}()
}

func (that *GameManager) runClock(ctx context.Context, live *liveSession) {
	ticker := time.NewTicker(that.settings.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.tick(live)
		}
	}
}

// tick advances the world by one step. Only points and the final whistle are
// persisted; every step is published. Both happen under live.mu, so listeners see
// steps in order and a closed session is never stored again.
func (that *GameManager) tick(live *liveSession) {
	live.mu.Lock()
	defer live.mu.Unlock()

	if live.closed || live.paddle.Phase() != paddle.PhasePlaying {
		return
	}

	result := live.paddle.Tick()
	live.sync()
	snapshot := live.snapshot()

	if result.Scorer != paddle.SideNone {
		log := that.logger.With("method", "tick", "sessionID", snapshot.ID)
		log.Debug("point scored", "scorer", result.Scorer, "left", snapshot.Paddle.Score.Left, "right", snapshot.Paddle.Score.Right)

		if result.Finished {
			log.Info("game finished", "winner", snapshot.Paddle.Winner)
		}

		ctx, cancel := context.WithTimeout(that.ctx, saveTimeout)
		if err := that.sessionRepo.CreateOrUpdate(ctx, snapshot); err != nil {
			log.Error("failed to save session", "error", err)
		}
		cancel()
	}

	that.publish(snapshot)
}
