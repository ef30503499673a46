package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrIdentityConflict marks a deterministic game-identifier collision with
	// a differing composite natural key: same teams and date, different
	// scores. Never silently dropped, never silently overwritten.
	ErrIdentityConflict = errors.New("game identity conflict")
)

// QuarantineReason codes surface in the ingest run report for manual
// data-quality triage. Quarantined rows are never retried automatically.
type QuarantineReason string

const (
	QuarantineMissingScore     QuarantineReason = "missing_score"
	QuarantineMissingDate      QuarantineReason = "missing_date"
	QuarantineMissingIdentity  QuarantineReason = "missing_identity"
	QuarantineAgeGroupMismatch QuarantineReason = "age_group_mismatch"
)

// QuarantineError rejects malformed or incomplete input rows. It is handled
// entirely inside the pipeline and never propagates as a run-level failure.
type QuarantineError struct {
	Reason QuarantineReason
	Detail string
}

func (e *QuarantineError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("quarantined: %s", e.Reason)
	}
	return fmt.Sprintf("quarantined (%s): %s", e.Reason, e.Detail)
}

func quarantinef(reason QuarantineReason, format string, args ...any) *QuarantineError {
	return &QuarantineError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// AsQuarantine unwraps a QuarantineError if err carries one.
func AsQuarantine(err error) (*QuarantineError, bool) {
	var qe *QuarantineError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
