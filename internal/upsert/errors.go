package upsert

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// StoreErrorKind partitions store failures for callers. DuplicateKey is the
// interesting one: it tells a caller that a concurrent request inserted the
// same natural key first, which is safe to retry as an update.
type StoreErrorKind string

const (
	KindConnectionFailure StoreErrorKind = "CONNECTION_FAILURE"
	KindDuplicateKey      StoreErrorKind = "DUPLICATE_KEY"
	KindTimeout           StoreErrorKind = "TIMEOUT"
	KindOther             StoreErrorKind = "OTHER"
)

// StoreError wraps a failure from the persistence layer with its kind.
// The engine never retries; retry policy belongs to the caller.
type StoreError struct {
	Kind StoreErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error (%s): %v", e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsDuplicateKey reports whether err is a uniqueness-violation store error.
func IsDuplicateKey(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == KindDuplicateKey
}

// classify maps a raw store failure to a StoreError. Uniqueness violations on
// the natural key surface as DuplicateKey; busy/locked and deadline errors as
// Timeout; everything unrecognized as Other.
func classify(err error) *StoreError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &StoreError{Kind: KindTimeout, Err: err}
	}
	if errors.Is(err, driver.ErrBadConn) {
		return &StoreError{Kind: KindConnectionFailure, Err: err}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch {
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique,
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
			return &StoreError{Kind: KindDuplicateKey, Err: err}
		case sqliteErr.Code == sqlite3.ErrBusy,
			sqliteErr.Code == sqlite3.ErrLocked:
			return &StoreError{Kind: KindTimeout, Err: err}
		case sqliteErr.Code == sqlite3.ErrCantOpen:
			return &StoreError{Kind: KindConnectionFailure, Err: err}
		}
	}

	return &StoreError{Kind: KindOther, Err: err}
}
