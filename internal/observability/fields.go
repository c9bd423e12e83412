package observability

import "go.uber.org/zap"

// Field aliases so callers outside the HTTP layer do not import zap directly.
//
//nolint:gochecknoglobals // Thin re-exports of zap field constructors
var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Bool     = zap.Bool
	Float64  = zap.Float64
	Duration = zap.Duration
	Error    = zap.Error
)
