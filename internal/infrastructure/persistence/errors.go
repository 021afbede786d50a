package persistence

import (
	"errors"

	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Postgres error codes that mean the transaction lost a race and the whole
// operation can be retried. Everything else is a final verdict.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
)

// translateError maps driver and GORM errors onto the domain error taxonomy.
// Serialization failures, deadlocks, and lock timeouts become the retryable
// conflict class; unique violations become ErrAlreadyExists.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}

	if code, ok := sqlState(err); ok {
		switch code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return shared.ErrTransactionConflict
		case pgUniqueViolation:
			return shared.ErrAlreadyExists
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}

	return err
}

// sqlState extracts the SQLSTATE code from a driver error. The GORM pool
// speaks pgx; the migration CLI connects through lib/pq.
func sqlState(err error) (string, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), true
	}
	return "", false
}
