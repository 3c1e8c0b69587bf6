package hub

import (
	"context"
	"encoding/json"
	"log/slog"

	"ctchen222/Tic-Tac-Toe-Solo/internal/events"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RunEventSubscriber consumes EventsChannel until ctx is cancelled.
func (h *Hub) RunEventSubscriber(ctx context.Context, rdb *redis.Client) {
	slog.InfoContext(ctx, "Event subscriber started", "channel", events.EventsChannel)
	pubsub := rdb.Subscribe(ctx, events.EventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Event subscriber stopped", "channel", events.EventsChannel)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleMessage(ctx, msg.Payload)
		}
	}
}

func (h *Hub) handleMessage(ctx context.Context, raw string) {
	eventCtx, eventSpan := tracer.Start(ctx, "hub.handleEvent", trace.WithAttributes(
		attribute.String("event.channel", events.EventsChannel),
	))
	defer eventSpan.End()

	var event events.Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		slog.ErrorContext(eventCtx, "Could not unmarshal global event", "error", err)
		eventSpan.RecordError(err)
		eventSpan.SetStatus(codes.Error, "Could not unmarshal global event")
		return
	}
	eventSpan.SetAttributes(attribute.String("event.type", event.Type))

	if err := h.HandleEvent(eventCtx, event); err != nil {
		slog.ErrorContext(eventCtx, "Could not handle event", "event.type", event.Type, "error", err)
		eventSpan.RecordError(err)
		eventSpan.SetStatus(codes.Error, "Could not handle event")
	}
}
