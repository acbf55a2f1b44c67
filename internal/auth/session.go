package auth

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type Session struct {
	ID        string
	UserID    int64
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// sessionTable is the only shared mutable state in the process.
type sessionTable struct {
	mu    sync.RWMutex
	items map[string]Session
}

func newSessionTable() *sessionTable {
	return &sessionTable{items: make(map[string]Session)}
}

func (t *sessionTable) put(s Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[s.ID] = s
}

func (t *sessionTable) get(id string) (Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.items[id]
	return s, ok
}

func (t *sessionTable) delete(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.items, id)
}

func (t *sessionTable) prune(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, s := range t.items {
		if !now.Before(s.ExpiresAt) {
			delete(t.items, id)
			n++
		}
	}
	return n
}

func (t *sessionTable) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

func (m *Manager) startSession(userID int64) (Session, error) {
	now := m.now().UTC()
	m.sessions.prune(now)

	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}
	sess.Token = signed

	m.sessions.put(sess)
	return sess, nil
}

func (m *Manager) resolve(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrUnauthenticated
	}
	claims, err := m.parseToken(token)
	if err != nil {
		return Session{}, ErrUnauthenticated
	}

	sess, ok := m.sessions.get(claims.SessionID)
	if !ok {
		return Session{}, ErrUnauthenticated
	}
	if !m.now().Before(sess.ExpiresAt) {
		m.sessions.delete(sess.ID)
		return Session{}, ErrUnauthenticated
	}
	if sess.Token != token {
		return Session{}, ErrUnauthenticated
	}
	return sess, nil
}

// parseToken checks the signature only; expiry is enforced by the caller so
// that Logout can still drop an expired session.
func (m *Manager) parseToken(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, errors.New("session id missing")
	}
	return claims, nil
}
