package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/BaGreal2/filmes-server/internal/auth"
	"github.com/BaGreal2/filmes-server/internal/middleware"
	"github.com/BaGreal2/filmes-server/internal/model"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
	msgGoogleFailed  = "Falha no login com o Google."
)

func RegisterHandler(sessions *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, "Todos os campos são obrigatórios")
			return
		}

		_, err := sessions.Register(r.Context(), req.Name, req.Email, req.Secret())
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			writeErr(w, http.StatusBadRequest, "Todos os campos são obrigatórios")
		case errors.Is(err, auth.ErrEmailTaken):
			writeErr(w, http.StatusBadRequest, "E-mail já cadastrado")
		case err != nil:
			middleware.LoggerFrom(r.Context()).ErrorContext(r.Context(), "register user", "error", err)
			writeErr(w, http.StatusInternalServerError, msgInternal)
		default:
			writeMsg(w, http.StatusCreated, "Usuário cadastrado com sucesso!")
		}
	}
}

func LoginHandler(sessions *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, "Requisição inválida")
			return
		}

		user, sess, err := sessions.LoginPassword(r.Context(), req.Email, req.Secret())
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeErr(w, http.StatusUnauthorized, "Credenciais inválidas")
			return
		}
		if err != nil {
			middleware.LoggerFrom(r.Context()).ErrorContext(r.Context(), "password login", "error", err)
			writeErr(w, http.StatusInternalServerError, msgInternal)
			return
		}

		sessions.SetSessionCookie(w, r, sess)
		writeMsg(w, http.StatusOK, fmt.Sprintf("Bem-vindo, %s!", user.Name))
	}
}

func ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			writeErr(w, http.StatusUnauthorized, "Não autenticado")
			return
		}
		writeJSON(w, http.StatusOK, model.Profile{Name: user.Name, Email: user.Email})
	}
}

func LogoutHandler(sessions *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.Logout(sessions.TokenFromRequest(r))
		sessions.ClearSessionCookie(w, r)
		writeMsg(w, http.StatusOK, "Logout realizado com sucesso!")
	}
}

// GoogleLoginHandler starts the consent flow. The state value is kept in a
// short-lived cookie and checked on the callback.
func GoogleLoginHandler(sessions *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider := sessions.Provider()
		if !provider.Enabled() {
			writeErr(w, http.StatusServiceUnavailable, "Login com o Google indisponível")
			return
		}

		state := uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/login/google",
			MaxAge:   int(oauthStateTTL.Seconds()),
			HttpOnly: true,
			Secure:   sessions.SecureCookie(r),
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
	}
}

func GoogleCallbackHandler(sessions *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFrom(r.Context())

		c, err := r.Cookie(oauthStateCookie)
		if err != nil || c.Value == "" || c.Value != r.URL.Query().Get("state") {
			logger.WarnContext(r.Context(), "oauth state mismatch")
			writeErr(w, http.StatusBadRequest, msgGoogleFailed)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Path:     "/login/google",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   sessions.SecureCookie(r),
			SameSite: http.SameSiteLaxMode,
		})

		_, sess, err := sessions.LoginOAuth(r.Context(), r.URL.Query().Get("code"))
		if errors.Is(err, auth.ErrOAuthExchange) {
			writeErr(w, http.StatusBadRequest, msgGoogleFailed)
			return
		}
		if err != nil {
			logger.ErrorContext(r.Context(), "oauth login", "error", err)
			writeErr(w, http.StatusInternalServerError, msgInternal)
			return
		}

		sessions.SetSessionCookie(w, r, sess)
		http.Redirect(w, r, "/filmes", http.StatusFound)
	}
}
