package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/BaGreal2/filmes-server/internal/db"
	"github.com/BaGreal2/filmes-server/internal/model"
)

const (
	sqlInsertUser = `
		INSERT INTO usuario (nome, email, senha_hash, criado_em)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	sqlInsertUserIfAbsent = `
		INSERT INTO usuario (nome, email, criado_em)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING`

	sqlUserByEmail = `
		SELECT id, nome, email, senha_hash, criado_em
		FROM   usuario
		WHERE  email = $1`

	sqlUserByID = `
		SELECT id, nome, email, senha_hash, criado_em
		FROM   usuario
		WHERE  id = $1`
)

type UserStore struct {
	db  *db.DB
	now func() time.Time
}

func NewUserStore(database *db.DB) *UserStore {
	return &UserStore{db: database, now: func() time.Time { return time.Now().UTC() }}
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a user. The UNIQUE constraint on email is the source of
// truth for ErrEmailTaken, so concurrent registrations cannot both succeed.
func (s *UserStore) Create(ctx context.Context, name, email string, passwordHash *string) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, sqlInsertUser, name, NormalizeEmail(email), passwordHash, s.now()).Scan(&id)
	if db.IsDuplicateKey(err) {
		return 0, ErrEmailTaken
	}
	if err != nil {
		return 0, unavailable("create user", err)
	}
	return id, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return findUser(ctx, s.db, sqlUserByEmail, NormalizeEmail(email))
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (model.User, error) {
	return findUser(ctx, s.db, sqlUserByID, id)
}

// FindOrCreate returns the user owning email, inserting a password-less row
// first when none exists. created reports whether this call inserted it.
func (s *UserStore) FindOrCreate(ctx context.Context, name, email string) (user model.User, created bool, err error) {
	email = NormalizeEmail(email)
	err = s.db.ExecTx(ctx, func(tx *db.Tx) error {
		res, err := tx.Exec(ctx, sqlInsertUserIfAbsent, name, email, s.now())
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			created = true
		}
		user, err = findUser(ctx, tx, sqlUserByEmail, email)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrUnavailable) {
			return model.User{}, false, err
		}
		return model.User{}, false, unavailable("find or create user", err)
	}
	return user, created, nil
}

func findUser(ctx context.Context, q db.Querier, query string, arg any) (model.User, error) {
	var (
		u    model.User
		hash sql.NullString
	)
	err := q.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &hash, &u.CreatedAt)
	if db.IsNotFound(err) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, unavailable("find user", err)
	}
	if hash.Valid {
		u.PasswordHash = &hash.String
	}
	return u, nil
}
