// Package store holds the SQL-backed Identity Store, Favorites Store and
// History Log. Statements are plain SQL over db.Querier.
package store

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnavailable     = errors.New("store unavailable")
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
