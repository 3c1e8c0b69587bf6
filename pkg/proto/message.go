package proto

import (
	"ctchen222/Tic-Tac-Toe-Solo/internal/engine"
	"ctchen222/Tic-Tac-Toe-Solo/internal/game"
)

// Client message types
const (
	TypeStart      = "start"
	TypeMove       = "move"
	TypeScore      = "score"
	TypeResetScore = "reset_score"
)

// Server message types
const (
	TypeSession      = "session"
	TypeMatchStarted = "match_started"
	TypeUpdate       = "update"
	TypeInvalidMove  = "invalid_move"
	TypeScoreBoard   = "score"
	TypeError        = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type     string `json:"type" validate:"required,oneof=start move score reset_score"`
	Name     string `json:"name,omitempty" validate:"max=64"`
	Position []int  `json:"position,omitempty" validate:"required_if=Type move"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type         string              `json:"type" validate:"required"`
	SessionID    string              `json:"session_id,omitempty"`
	Reason       string              `json:"reason,omitempty"`
	Status       string              `json:"status,omitempty"`
	Board        [][]game.PlayerMark `json:"board,omitempty"`
	Next         game.PlayerMark     `json:"next,omitempty"`
	Outcome      game.Outcome        `json:"outcome,omitempty"`
	Winner       engine.Participant  `json:"winner,omitempty"`
	WinningMark  game.PlayerMark     `json:"winning_mark,omitempty"`
	ComputerMove *game.Position      `json:"computer_move,omitempty"`
	Score        *engine.ScoreBoard  `json:"score,omitempty"`
}

// PlayerAssignmentMessage informs the human of their mark at the start of a match.
type PlayerAssignmentMessage struct {
	Type         string              `json:"type"`
	SessionID    string              `json:"session_id,omitempty"`
	PlayerName   string              `json:"player_name"`
	Mark         game.PlayerMark     `json:"mark"`
	Status       string              `json:"status"`
	Board        [][]game.PlayerMark `json:"board"`
	Next         game.PlayerMark     `json:"next"`
	ComputerMove *game.Position      `json:"computer_move,omitempty"`
}

// NewUpdate converts an engine move result into an update message.
func NewUpdate(msgType string, r engine.MoveResult) *ServerToClientMessage {
	score := r.Score
	return &ServerToClientMessage{
		Type:         msgType,
		Status:       r.Status,
		Board:        game.BoardAsSlices(r.Board),
		Next:         r.Next,
		Outcome:      r.Outcome,
		Winner:       r.Winner,
		WinningMark:  r.WinningMark,
		ComputerMove: r.ComputerMove,
		Score:        &score,
	}
}

// NewMatchStarted converts engine match info into an assignment message.
func NewMatchStarted(sessionID string, info engine.MatchInfo) *PlayerAssignmentMessage {
	return &PlayerAssignmentMessage{
		Type:         TypeMatchStarted,
		SessionID:    sessionID,
		PlayerName:   info.PlayerName,
		Mark:         info.HumanMark,
		Status:       info.Status,
		Board:        game.BoardAsSlices(info.Board),
		Next:         info.Next,
		ComputerMove: info.ComputerMove,
	}
}
