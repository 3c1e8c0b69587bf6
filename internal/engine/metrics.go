package engine

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var meter = otel.Meter("engine")

type metrics struct {
	matchesCompleted metric.Int64Counter
	movesRejected    metric.Int64Counter
}

func newMetrics() *metrics {
	m := &metrics{}

	var err error
	m.matchesCompleted, err = meter.Int64Counter("tictactoe.matches.completed",
		metric.WithDescription("Matches that reached a terminal outcome"),
		metric.WithUnit("{match}"),
	)
	if err != nil {
		slog.Warn("failed to create matches counter", "error", err)
		m.matchesCompleted = noop.Int64Counter{}
	}

	m.movesRejected, err = meter.Int64Counter("tictactoe.moves.rejected",
		metric.WithDescription("Human moves rejected as invalid"),
		metric.WithUnit("{move}"),
	)
	if err != nil {
		slog.Warn("failed to create rejected moves counter", "error", err)
		m.movesRejected = noop.Int64Counter{}
	}

	return m
}

func (m *metrics) matchCompleted(ctx context.Context, result string) {
	m.matchesCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (m *metrics) moveRejected(ctx context.Context, reason string) {
	m.movesRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
