package events

import (
	"encoding/json"
	"fmt"
	"time"

	"ctchen222/Tic-Tac-Toe-Solo/internal/game"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	TypeMatchStarted  = "match_started"
	TypeMatchFinished = "match_finished"
	TypeScoreReset    = "score_reset"
)

// Event represents a message published on EventsChannel.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// ScorePayload mirrors the session score board at the time of the event.
type ScorePayload struct {
	HumanWins    int `json:"human_wins"`
	ComputerWins int `json:"computer_wins"`
	Ties         int `json:"ties"`
}

// MatchStartedPayload is the payload for the "match_started" event.
type MatchStartedPayload struct {
	SessionID  string          `json:"session_id"`
	PlayerName string          `json:"player_name"`
	HumanMark  game.PlayerMark `json:"human_mark"`
	StartedAt  time.Time       `json:"started_at"`
}

// MatchFinishedPayload is the payload for the "match_finished" event.
type MatchFinishedPayload struct {
	SessionID   string          `json:"session_id"`
	Result      string          `json:"result"`
	WinningMark game.PlayerMark `json:"winning_mark,omitempty"`
	Score       ScorePayload    `json:"score"`
}

// ScoreResetPayload is the payload for the "score_reset" event.
type ScoreResetPayload struct {
	SessionID string `json:"session_id"`
}

// New wraps payload into an Event of the given type.
func New(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: data}, nil
}
