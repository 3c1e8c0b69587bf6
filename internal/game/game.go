package game

import "errors"

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

// Outcome is the state of a match after a placement has been evaluated.
type Outcome string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Match outcomes
	InProgress Outcome = "in_progress"
	Won        Outcome = "won"
	Tied       Outcome = "tied"

	// Board boundaries
	BorderMin = 0
	BorderMax = 2
)

var (
	ErrOutOfBounds  = errors.New("position out of bounds")
	ErrCellOccupied = errors.New("cell already occupied")
)

// Board is the 3x3 grid, indexed [row][col].
type Board [3][3]PlayerMark

// Position addresses a single cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// WinLines lists the 3 rows, 3 columns and 2 diagonals.
var WinLines = [8][3]Position{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Opponent returns the other mark.
func (m PlayerMark) Opponent() PlayerMark {
	if m == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// InBounds reports whether (row, col) is on the board.
func InBounds(row, col int) bool {
	return row >= BorderMin && row <= BorderMax && col >= BorderMin && col <= BorderMax
}

// Place puts mark at (row, col). The board is left untouched on error.
func (b *Board) Place(row, col int, mark PlayerMark) error {
	if !InBounds(row, col) {
		return ErrOutOfBounds
	}
	if b[row][col] != None {
		return ErrCellOccupied
	}
	b[row][col] = mark
	return nil
}

// EmptyCells returns the open positions in row-major order.
func (b *Board) EmptyCells() []Position {
	cells := make([]Position, 0, 9)
	for r := range [3]int{} {
		for c := range [3]int{} {
			if b[r][c] == None {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// Count returns how many cells hold mark.
func (b *Board) Count(mark PlayerMark) int {
	n := 0
	for r := range [3]int{} {
		for c := range [3]int{} {
			if b[r][c] == mark {
				n++
			}
		}
	}
	return n
}

// IsBoardFull checks if every cell holds a mark.
func IsBoardFull(b Board) bool {
	for r := range [3]int{} {
		for c := range [3]int{} {
			if b[r][c] == None {
				return false
			}
		}
	}
	return true
}

// HasLine reports whether mark owns any of the 8 lines.
func HasLine(b Board, mark PlayerMark) bool {
	if mark == None {
		return false
	}
	for _, line := range WinLines {
		if b[line[0].Row][line[0].Col] == mark &&
			b[line[1].Row][line[1].Col] == mark &&
			b[line[2].Row][line[2].Col] == mark {
			return true
		}
	}
	return false
}

// Evaluate classifies the board right after last was placed. Only last can have
// completed a line, so it is the only mark checked.
func Evaluate(b Board, last PlayerMark) Outcome {
	if HasLine(b, last) {
		return Won
	}
	if IsBoardFull(b) {
		return Tied
	}
	return InProgress
}

// BoardAsSlices converts the board to a slice of slices, the shape clients render.
func BoardAsSlices(b Board) [][]PlayerMark {
	board := make([][]PlayerMark, 3)
	for i := range [3]int{} {
		board[i] = make([]PlayerMark, 3)
		for j := range [3]int{} {
			board[i][j] = b[i][j]
		}
	}
	return board
}
