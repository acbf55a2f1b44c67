package db

import (
	"errors"

	"github.com/lib/pq"
)

const DriverPostgres = "postgres"

// unique_violation
const pqUniqueViolation pq.ErrorCode = "23505"

func mapPostgresError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	if pqErr.Code == pqUniqueViolation {
		return &Error{Sentinel: ErrDuplicateKey, Cause: err}
	}
	return nil
}
