package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

const uniqueViolationCode = "23505"

// violatedConstraint returns the constraint name behind a unique-violation
// error, or "" when the error is something else. Repositories map constraint
// names onto domain sentinel errors.
func violatedConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
		return pqErr.Constraint
	}
	return ""
}
