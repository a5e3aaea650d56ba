package gorm

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/harborcase/govern/pkg/errs"
)

const uniqueViolation = "23505"

// sqlState is implemented by pgconn.PgError and friends.
type sqlState interface {
	SQLState() string
}

func isUniqueViolation(err error) bool {
	var state sqlState
	if errors.As(err, &state) {
		return state.SQLState() == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return strings.Contains(err.Error(), "duplicate key value")
}

// mapError translates a driver error into the engine taxonomy.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case isUniqueViolation(err):
		return errs.Conflict("%v", err)
	default:
		return errs.Store(err)
	}
}
