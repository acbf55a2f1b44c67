package auth

import (
	"net/http"
	"strings"
	"time"
)

func (m *Manager) CookieName() string { return m.cookieName }

// TokenFromRequest returns the session cookie value, or "" when absent.
func (m *Manager) TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (m *Manager) SetSessionCookie(w http.ResponseWriter, r *http.Request, s Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.SecureCookie(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.SecureCookie(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// SecureCookie reports whether cookies set on this request should be marked
// Secure: the configured override first, then TLS or X-Forwarded-Proto.
func (m *Manager) SecureCookie(r *http.Request) bool {
	if m.cookieSecure != nil {
		return *m.cookieSecure
	}
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https")
}
