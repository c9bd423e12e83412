package observability

import (
	"context"
	"log/slog"
	"sort"
)

// EventBus publishes optimization events as structured log records. The
// service has no external subscribers; the log stream is the event sink.
type EventBus struct {
	logger *slog.Logger
}

// NewEventBus creates an event bus writing to logger.
func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{logger: logger}
}

// Publish emits one info record named after the event type. Attributes are
// sorted so records of the same event line up across requests.
func (e *EventBus) Publish(ctx context.Context, eventType string, data map[string]any) {
	if e.logger == nil {
		return
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, data[k]))
	}

	e.logger.LogAttrs(ctx, slog.LevelInfo, eventType, attrs...)
}
