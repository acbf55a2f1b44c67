package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/BaGreal2/filmes-server/internal/middleware"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			middleware.LoggerFrom(r.Context()).WarnContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
