package bot

import "ctchen222/Tic-Tac-Toe-Solo/internal/game"

// MoveCalculator selects computer moves. It plays uniformly at random among the
// open cells and never looks ahead.
type MoveCalculator struct {
	chooser Chooser
}

// NewMoveCalculator creates a calculator drawing from chooser. A nil chooser
// falls back to RandomChooser.
func NewMoveCalculator(chooser Chooser) *MoveCalculator {
	if chooser == nil {
		chooser = RandomChooser{}
	}
	return &MoveCalculator{chooser: chooser}
}

// CalculateNextMove returns a random empty cell, or (-1, -1) when the board is full.
func (c *MoveCalculator) CalculateNextMove(board game.Board) (row, col int) {
	availableMoves := board.EmptyCells()
	if len(availableMoves) == 0 {
		return -1, -1 // No moves left
	}

	randomMove := availableMoves[c.chooser.IntN(len(availableMoves))]
	return randomMove.Row, randomMove.Col
}

// CoinFlip returns true or false with equal probability.
func (c *MoveCalculator) CoinFlip() bool {
	return c.chooser.IntN(2) == 0
}
