package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BaGreal2/filmes-server/internal/auth"
	"github.com/BaGreal2/filmes-server/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// SessionResolver is the part of auth.Manager the gate needs.
type SessionResolver interface {
	TokenFromRequest(r *http.Request) string
	CurrentUser(ctx context.Context, token string) (model.User, auth.Session, error)
}

// RequireSession rejects requests without a live session and stores the
// resolved user in the request context.
func RequireSession(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _, err := sessions.CurrentUser(r.Context(), sessions.TokenFromRequest(r))
			if errors.Is(err, auth.ErrUnauthenticated) {
				writeError(w, http.StatusUnauthorized, "Não autenticado")
				return
			}
			if err != nil {
				LoggerFrom(r.Context()).ErrorContext(r.Context(), "resolve session", "error", err)
				writeError(w, http.StatusInternalServerError, "Erro interno")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
		})
	}
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey).(model.User)
	return u, ok
}

func LoggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
