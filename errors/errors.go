// Package errors provides error handling for energydb.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//   - Marks, so domain sentinels survive wrapping
//
// Usage:
//
//	// Wrap with context
//	if err := load(path); err != nil {
//	    return errors.Wrapf(err, "load %s", path)
//	}
//
//	// Classify an error without changing its message
//	return errors.Mark(errors.Newf("line %d: bad year", n), ErrMalformedRow)
//
//	// Add hints for users
//	return errors.WithHint(err, "check the file path")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// UserMessage renders err for a terminal: the message, followed by any
// hints attached along the wrap chain, one per line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(err.Error())
	for _, hint := range GetAllHints(err) {
		b.WriteString("\nHint: ")
		b.WriteString(hint)
	}
	return b.String()
}
