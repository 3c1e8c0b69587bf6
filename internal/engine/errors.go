package engine

import (
	"errors"
	"fmt"

	"ctchen222/Tic-Tac-Toe-Solo/internal/game"
)

// ErrInvalidMove is wrapped by every rejected human move together with one of
// the specific reasons below (or game.ErrOutOfBounds / game.ErrCellOccupied).
var ErrInvalidMove = errors.New("invalid move")

var (
	ErrNoActiveMatch = errors.New("no match has been started")
	ErrMatchFinished = errors.New("match is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
)

func invalidMove(reason error) error {
	return fmt.Errorf("%w: %w", ErrInvalidMove, reason)
}

// reasonLabel maps a rejection reason to a metric/log label.
func reasonLabel(reason error) string {
	switch {
	case errors.Is(reason, ErrNoActiveMatch):
		return "no_active_match"
	case errors.Is(reason, ErrMatchFinished):
		return "match_finished"
	case errors.Is(reason, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(reason, game.ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(reason, game.ErrCellOccupied):
		return "cell_occupied"
	default:
		return "unknown"
	}
}
