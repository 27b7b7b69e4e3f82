package energy

import (
	"github.com/teranos/energydb/db"
	"github.com/teranos/energydb/errors"
	"github.com/teranos/energydb/internal/observability"
)

var (
	// ErrFileAccess marks a missing or unreadable input file. It is raised
	// before the production table is touched.
	ErrFileAccess = errors.New("input file not accessible")

	// ErrMalformedRow marks a data line that does not parse into four
	// well-typed fields.
	ErrMalformedRow = errors.New("malformed row")

	// ErrStoreUnavailable marks a store open or statement failure.
	ErrStoreUnavailable = db.ErrStoreUnavailable
)

// failureReason maps an error to its load_failures_total label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrFileAccess):
		return observability.ReasonFileAccess
	case errors.Is(err, ErrMalformedRow):
		return observability.ReasonMalformedRow
	default:
		return observability.ReasonStore
	}
}
