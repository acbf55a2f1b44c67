package db

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("db: record not found")
	ErrDuplicateKey = errors.New("db: duplicate key")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
func IsDuplicateKey(err error) bool { return errors.Is(err, ErrDuplicateKey) }

// Error keeps the driver error reachable through Unwrap while matching the
// sentinel with errors.Is.
type Error struct {
	Sentinel error
	Cause    error
}

func (e *Error) Error() string { return fmt.Sprintf("%s (cause: %v)", e.Sentinel, e.Cause) }
func (e *Error) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *Error) Unwrap() error { return e.Cause }

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var mapped *Error
	if errors.As(err, &mapped) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Sentinel: ErrNotFound, Cause: err}
	}
	if m := mapPostgresError(err); m != nil {
		return m
	}
	if m := mapSQLiteError(err); m != nil {
		return m
	}
	return err
}
