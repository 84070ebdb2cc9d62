package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"hotelstay/internal/pkg/errs"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// uniqueViolation reports whether err is a unique-constraint failure and,
// when the driver exposes it, which constraint or column tripped.
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		_, detail, _ := strings.Cut(msg, "UNIQUE constraint failed:")
		return strings.TrimSpace(detail), true
	case strings.Contains(msg, "Duplicate entry"):
		return msg, true
	}
	return "", false
}

// IsRetryable reports postgres serialization failures and deadlocks.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}

func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return errs.NotFound(what)
	}
	if _, ok := uniqueViolation(err); ok {
		return errs.Conflict(what + " already exists")
	}
	return errs.Persistence(err, what)
}
