// Package hub aggregates match events from every session into server-wide
// statistics. Events arrive either directly from local engines or, when
// several servers share a Redis channel, through the event subscriber.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"ctchen222/Tic-Tac-Toe-Solo/internal/events"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("hub")

// Stats are totals over all sessions since the hub started.
type Stats struct {
	MatchesStarted  int `json:"matches_started"`
	MatchesFinished int `json:"matches_finished"`
	HumanWins       int `json:"human_wins"`
	ComputerWins    int `json:"computer_wins"`
	Ties            int `json:"ties"`
	ScoreResets     int `json:"score_resets"`
}

// Hub collects Stats.
type Hub struct {
	mu    sync.RWMutex
	stats Stats
}

// NewHub creates a hub with zeroed stats.
func NewHub() *Hub {
	return &Hub{}
}

// Stats returns a copy of the current totals.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stats
}

// Publish lets engines deliver events straight to the hub when no broker is configured.
func (h *Hub) Publish(ctx context.Context, event events.Event) error {
	return h.HandleEvent(ctx, event)
}

// HandleEvent folds one event into the totals. Unknown event types are ignored.
func (h *Hub) HandleEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.TypeMatchStarted:
		h.mu.Lock()
		h.stats.MatchesStarted++
		h.mu.Unlock()

	case events.TypeMatchFinished:
		var payload events.MatchFinishedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("could not unmarshal %s payload: %w", event.Type, err)
		}
		h.mu.Lock()
		h.stats.MatchesFinished++
		switch payload.Result {
		case "human_win":
			h.stats.HumanWins++
		case "computer_win":
			h.stats.ComputerWins++
		case "tie":
			h.stats.Ties++
		default:
			slog.WarnContext(ctx, "Unknown match result", "result", payload.Result, "session.id", payload.SessionID)
		}
		h.mu.Unlock()

	case events.TypeScoreReset:
		h.mu.Lock()
		h.stats.ScoreResets++
		h.mu.Unlock()

	default:
		slog.DebugContext(ctx, "Ignoring event", "event.type", event.Type)
	}
	return nil
}
