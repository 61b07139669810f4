package logger

import (
	"context"
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const TraceIDKey contextKey = "trace_id"

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(TraceIDKey).(string); ok {
		return id
	}
	return ""
}

// NewTraceID mints a ULID for correlating one action's log lines.
func NewTraceID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
