// Package auth owns user registration, password and Google login, and the
// server-side session table behind the signed session cookie.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/BaGreal2/filmes-server/internal/model"
	"github.com/BaGreal2/filmes-server/internal/store"
)

var (
	ErrInvalidInput       = errors.New("all fields are required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("no valid session")
	ErrOAuthExchange      = errors.New("oauth login failed")
)

// UserStore is the identity store the manager depends on.
type UserStore interface {
	Create(ctx context.Context, name, email string, passwordHash *string) (int64, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindOrCreate(ctx context.Context, name, email string) (model.User, bool, error)
}

var _ UserStore = (*store.UserStore)(nil)

type Options struct {
	Secret       string
	SessionTTL   time.Duration
	CookieName   string
	CookieSecure *bool
	BcryptCost   int
	Logger       *slog.Logger
}

type Manager struct {
	users    UserStore
	provider IdentityProvider
	sessions *sessionTable
	logger   *slog.Logger

	secret       []byte
	ttl          time.Duration
	cookieName   string
	cookieSecure *bool
	bcryptCost   int
	now          func() time.Time
}

func NewManager(users UserStore, provider IdentityProvider, opts Options) *Manager {
	if provider == nil {
		provider = DisabledProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	cookieName := opts.CookieName
	if cookieName == "" {
		cookieName = "filmes_session"
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Manager{
		users:        users,
		provider:     provider,
		sessions:     newSessionTable(),
		logger:       logger,
		secret:       []byte(opts.Secret),
		ttl:          ttl,
		cookieName:   cookieName,
		cookieSecure: opts.CookieSecure,
		bcryptCost:   cost,
		now:          time.Now,
	}
}

func (m *Manager) Provider() IdentityProvider { return m.provider }

// Register creates a password account. The secret is hashed with bcrypt here;
// whatever the client sends is never stored as-is.
func (m *Manager) Register(ctx context.Context, name, email, password string) (int64, error) {
	name = strings.TrimSpace(name)
	email = store.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return 0, ErrInvalidInput
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	hash := string(hashed)

	id, err := m.users.Create(ctx, name, email, &hash)
	if errors.Is(err, store.ErrEmailTaken) {
		return 0, ErrEmailTaken
	}
	if err != nil {
		return 0, err
	}
	m.logger.InfoContext(ctx, "user registered", "user_id", id)
	return id, nil
}

func (m *Manager) LoginPassword(ctx context.Context, email, password string) (model.User, Session, error) {
	email = store.NormalizeEmail(email)
	if email == "" || password == "" {
		return model.User{}, Session{}, ErrInvalidCredentials
	}

	u, err := m.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return model.User{}, Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, Session{}, err
	}
	if !u.HasPassword() {
		return model.User{}, Session{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)) != nil {
		return model.User{}, Session{}, ErrInvalidCredentials
	}

	sess, err := m.startSession(u.ID)
	if err != nil {
		return model.User{}, Session{}, err
	}
	return u, sess, nil
}

// LoginOAuth completes the provider callback. Repeated logins with the same
// email resolve to the same user row.
func (m *Manager) LoginOAuth(ctx context.Context, code string) (model.User, Session, error) {
	profile, err := m.provider.Exchange(ctx, code)
	if err != nil {
		m.logger.WarnContext(ctx, "oauth exchange failed", "error", err)
		return model.User{}, Session{}, fmt.Errorf("%w: %v", ErrOAuthExchange, err)
	}
	email := store.NormalizeEmail(profile.Email)
	if email == "" {
		return model.User{}, Session{}, fmt.Errorf("%w: provider returned no email", ErrOAuthExchange)
	}
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = email
	}

	u, created, err := m.users.FindOrCreate(ctx, name, email)
	if err != nil {
		return model.User{}, Session{}, err
	}
	if created {
		m.logger.InfoContext(ctx, "user provisioned from oauth", "user_id", u.ID)
	}

	sess, err := m.startSession(u.ID)
	if err != nil {
		return model.User{}, Session{}, err
	}
	return u, sess, nil
}

// CurrentUser resolves a session token to its user.
func (m *Manager) CurrentUser(ctx context.Context, token string) (model.User, Session, error) {
	sess, err := m.resolve(token)
	if err != nil {
		return model.User{}, Session{}, err
	}
	u, err := m.users.FindByID(ctx, sess.UserID)
	if errors.Is(err, store.ErrUserNotFound) {
		m.sessions.delete(sess.ID)
		return model.User{}, Session{}, ErrUnauthenticated
	}
	if err != nil {
		return model.User{}, Session{}, err
	}
	return u, sess, nil
}

// Logout drops the session behind token. Unknown or invalid tokens are
// ignored, so logging out twice is fine.
func (m *Manager) Logout(token string) {
	claims, err := m.parseToken(token)
	if err != nil {
		return
	}
	m.sessions.delete(claims.SessionID)
}
