package models

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// StartMatchRequest defines the body of a new match request. The body is optional.
type StartMatchRequest struct {
	Name string `json:"name" binding:"max=64"`
}

// MoveRequest defines the structure for a human move. Range checks are left to
// the engine so that out-of-bounds cells are reported as invalid moves.
type MoveRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}
