package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across energydb.
const (
	FieldPath     = "path"
	FieldDriver   = "driver"
	FieldRows     = "rows"
	FieldLine     = "line"
	FieldDuration = "duration"
	FieldError    = "error"
	FieldReason   = "reason"

	// Domain
	FieldLoadID = "load_id"
	FieldSource = "source"
	FieldYear   = "year"
	FieldMWh    = "mwh"
)

type contextKey string

const loadIDKey contextKey = "logger_load_id"

// WithLoadID adds a load run ID to the context for logging.
func WithLoadID(ctx context.Context, loadID string) context.Context {
	return context.WithValue(ctx, loadIDKey, loadID)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}
	if loadID, ok := ctx.Value(loadIDKey).(string); ok && loadID != "" {
		fields = append(fields, FieldLoadID, loadID)
	}
	return fields
}

// FromContext returns base with any fields carried by ctx attached.
func FromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
