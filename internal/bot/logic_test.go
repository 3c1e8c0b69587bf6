package bot

import (
	"testing"

	"ctchen222/Tic-Tac-Toe-Solo/internal/game"
)

func TestCalculateNextMove(t *testing.T) {
	t.Run("Only one spot left", func(t *testing.T) {
		board := game.Board{
			{game.PlayerX, game.PlayerO, game.PlayerX},
			{game.PlayerO, game.PlayerX, game.PlayerO},
			{game.PlayerX, game.None, game.PlayerO},
		}
		row, col := NewMoveCalculator(nil).CalculateNextMove(board)
		if row != 2 || col != 1 {
			t.Errorf("CalculateNextMove should pick the only available spot (2,1), but got (%d, %d)", row, col)
		}
	})

	t.Run("Multiple spots left - picks only open cells", func(t *testing.T) {
		board := game.Board{
			{game.PlayerX, game.None, game.None},
			{game.None, game.PlayerO, game.None},
			{game.None, game.None, game.PlayerX},
		}
		calc := NewMoveCalculator(nil)
		seen := make(map[[2]int]bool)
		for i := 0; i < 200; i++ {
			row, col := calc.CalculateNextMove(board)
			if !game.InBounds(row, col) || board[row][col] != game.None {
				t.Fatalf("CalculateNextMove returned an invalid move (%d, %d)", row, col)
			}
			seen[[2]int{row, col}] = true
		}
		if len(seen) < 2 {
			t.Errorf("expected random picks to cover several cells, saw %v", seen)
		}
	})

	t.Run("Scripted chooser indexes the open cells in row-major order", func(t *testing.T) {
		board := game.Board{
			{game.PlayerX, game.None, game.None},
			{game.None, game.PlayerO, game.None},
			{game.None, game.None, game.None},
		}
		// open cells: (0,1) (0,2) (1,0) (1,2) (2,0) (2,1) (2,2)
		calc := NewMoveCalculator(NewSequenceChooser(0, 3, 6))
		want := [][2]int{{0, 1}, {1, 2}, {2, 2}}
		for _, w := range want {
			row, col := calc.CalculateNextMove(board)
			if row != w[0] || col != w[1] {
				t.Errorf("got (%d, %d), want (%d, %d)", row, col, w[0], w[1])
			}
		}
	})

	t.Run("Full board", func(t *testing.T) {
		board := game.Board{
			{game.PlayerX, game.PlayerO, game.PlayerX},
			{game.PlayerO, game.PlayerX, game.PlayerO},
			{game.PlayerX, game.PlayerO, game.PlayerX},
		}
		row, col := NewMoveCalculator(nil).CalculateNextMove(board)
		if row != -1 || col != -1 {
			t.Errorf("CalculateNextMove on a full board should return (-1, -1), but got (%d, %d)", row, col)
		}
	})
}

func TestCoinFlip(t *testing.T) {
	calc := NewMoveCalculator(nil)
	seenTrue, seenFalse := false, false
	for i := 0; i < 100; i++ {
		if calc.CoinFlip() {
			seenTrue = true
		} else {
			seenFalse = true
		}
	}
	if !seenTrue || !seenFalse {
		t.Errorf("CoinFlip() did not return both outcomes over 100 runs. true: %v, false: %v", seenTrue, seenFalse)
	}

	scripted := NewMoveCalculator(NewSequenceChooser(0, 1))
	if !scripted.CoinFlip() || scripted.CoinFlip() {
		t.Error("CoinFlip() should follow the scripted picks 0 -> true, 1 -> false")
	}
}

func TestSequenceChooser(t *testing.T) {
	s := NewSequenceChooser(4, -3, 1)
	if got := s.IntN(3); got != 1 {
		t.Errorf("IntN(3) got %d, want 1", got)
	}
	if got := s.IntN(2); got != 1 {
		t.Errorf("IntN(2) got %d, want 1", got)
	}
	if got := s.IntN(5); got != 1 {
		t.Errorf("IntN(5) got %d, want 1", got)
	}
	// cycles back to the first pick
	if got := s.IntN(9); got != 4 {
		t.Errorf("IntN(9) got %d, want 4", got)
	}

	if got := NewSequenceChooser().IntN(7); got != 0 {
		t.Errorf("empty chooser got %d, want 0", got)
	}
}
