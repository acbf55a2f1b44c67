package db

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

const DriverSQLite = "sqlite3"

func mapSQLiteError(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return nil
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return &Error{Sentinel: ErrDuplicateKey, Cause: err}
	}
	return nil
}
