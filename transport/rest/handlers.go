package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

type sessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
}

type handlers struct {
	logger   *slog.Logger
	sessions sessionReader
}

func newHandlers(logger *slog.Logger, sessions sessionReader) *handlers {
	return &handlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// GetSession - the current snapshot of one session.
func (that *handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetSession", "requestID", middleware.GetReqID(r.Context()))

	id := chi.URLParam(r, "id")

	session, err := that.sessions.GetSession(r.Context(), id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get session", "sessionID", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(session); err != nil {
		log.Error("failed to encode session", "error", err)
	}
}
