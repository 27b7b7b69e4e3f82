package db

import (
	"strings"

	"github.com/teranos/energydb/errors"
)

// ErrStoreUnavailable marks failures to open the store or run a statement
// against it. Check with errors.Is.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrDatabaseClosed is returned when operations are attempted on a closed database.
var ErrDatabaseClosed = errors.New("database is closed")

// unavailable wraps a driver error with context and marks it ErrStoreUnavailable.
func unavailable(err error, format string, args ...interface{}) error {
	if IsDatabaseClosed(err) && !errors.Is(err, ErrDatabaseClosed) {
		err = errors.Mark(err, ErrDatabaseClosed)
	}
	return errors.Mark(errors.Wrapf(err, format, args...), ErrStoreUnavailable)
}

// IsDatabaseClosed checks if an error indicates the database connection is closed.
// This handles both:
// - Wrapped ErrDatabaseClosed errors from this package
// - Raw driver errors that contain "database is closed" in their message
//
// The string matching fallback is necessary because database/sql returns its
// own unexported error for closed handles.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
