package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ctchen222/Tic-Tac-Toe-Solo/internal/bot"
	"ctchen222/Tic-Tac-Toe-Solo/internal/events"
	"ctchen222/Tic-Tac-Toe-Solo/internal/events/mocks"
	"ctchen222/Tic-Tac-Toe-Solo/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// eventType matches an events.Event by its Type field.
type eventType string

func (m eventType) Matches(x any) bool {
	e, ok := x.(events.Event)
	return ok && e.Type == string(m)
}

func (m eventType) String() string {
	return fmt.Sprintf("is event of type %q", string(m))
}

func play(t *testing.T, e *Engine, moves ...game.Position) MoveResult {
	t.Helper()
	var result MoveResult
	for _, mv := range moves {
		var err error
		result, err = e.ApplyHumanMove(context.Background(), mv.Row, mv.Col)
		require.NoError(t, err, "move (%d,%d)", mv.Row, mv.Col)
	}
	return result
}

func TestStartMatch_HumanOpens(t *testing.T) {
	// Given a coin flip that hands X to the human
	e := New(WithChooser(bot.NewSequenceChooser(0)))

	// When a match starts
	info := e.StartMatch(context.Background(), "  Ann  ")

	// Then the human holds X and nothing has been played
	assert.Equal(t, "Ann", info.PlayerName)
	assert.Equal(t, game.PlayerX, info.HumanMark)
	assert.Equal(t, game.PlayerO, info.ComputerMark)
	assert.Equal(t, game.PlayerX, info.Next)
	assert.Nil(t, info.ComputerMove)
	assert.Equal(t, game.Board{}, info.Board)
	assert.Equal(t, "Ann, get ready!\nYou are X.", info.Status)
}

func TestStartMatch_ComputerOpens(t *testing.T) {
	// Given a coin flip that hands X to the computer and a pick of the centre cell
	e := New(WithChooser(bot.NewSequenceChooser(1, 4)))

	info := e.StartMatch(context.Background(), "Ann")

	// Then exactly one computer placement happened and it is the human's turn
	assert.Equal(t, game.PlayerO, info.HumanMark)
	assert.Equal(t, game.PlayerX, info.ComputerMark)
	require.NotNil(t, info.ComputerMove)
	assert.Equal(t, game.Position{Row: 1, Col: 1}, *info.ComputerMove)
	assert.Equal(t, game.PlayerX, info.Board[1][1])
	assert.Equal(t, 1, info.Board.Count(game.PlayerX))
	assert.Equal(t, 0, info.Board.Count(game.PlayerO))
	assert.Equal(t, game.PlayerO, info.Next)
	assert.Equal(t, "Ann, get ready!\nComputer is X.", info.Status)
}

func TestStartMatch_DefaultName(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		input   string
		expects string
	}{
		{"empty", nil, "", DefaultPlayerName},
		{"blank", nil, " \t\n ", DefaultPlayerName},
		{"custom default", []Option{WithDefaultName("Guest")}, "", "Guest"},
		{"blank custom default is ignored", []Option{WithDefaultName("  ")}, "", DefaultPlayerName},
		{"supplied", nil, "Bob", "Bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithChooser(bot.NewSequenceChooser(0))}, tt.opts...)
			e := New(opts...)
			info := e.StartMatch(context.Background(), tt.input)
			assert.Equal(t, tt.expects, info.PlayerName)
			assert.Equal(t, tt.expects+", get ready!\nYou are X.", info.Status)
		})
	}
}

func TestApplyHumanMove_HumanWinsRow(t *testing.T) {
	// Human is X; computer picks (1,0) then (1,1), never touching row 0.
	e := New(WithChooser(bot.NewSequenceChooser(0, 2, 1)))
	e.StartMatch(context.Background(), "Ann")

	first := play(t, e, game.Position{Row: 0, Col: 0})
	require.NotNil(t, first.ComputerMove)
	assert.Equal(t, game.Position{Row: 1, Col: 0}, *first.ComputerMove)
	assert.Equal(t, game.InProgress, first.Outcome)
	assert.Equal(t, game.PlayerX, first.Next)
	assert.Equal(t, "Ann's turn (X)", first.Status)

	second := play(t, e, game.Position{Row: 0, Col: 1})
	require.NotNil(t, second.ComputerMove)
	assert.Equal(t, game.Position{Row: 1, Col: 1}, *second.ComputerMove)

	final := play(t, e, game.Position{Row: 0, Col: 2})
	assert.True(t, final.Accepted)
	assert.Equal(t, game.Won, final.Outcome)
	assert.Equal(t, Human, final.Winner)
	assert.Equal(t, game.PlayerX, final.WinningMark)
	assert.Nil(t, final.ComputerMove, "computer must not reply after a winning move")
	assert.Equal(t, game.None, final.Next)
	assert.Equal(t, "Ann Wins!", final.Status)
	assert.Equal(t, ScoreBoard{HumanWins: 1}, final.Score)

	expected := game.Board{
		{game.PlayerX, game.PlayerX, game.PlayerX},
		{game.PlayerO, game.PlayerO, game.None},
		{game.None, game.None, game.None},
	}
	assert.Equal(t, expected, final.Board)
}

func TestApplyHumanMove_ComputerWins(t *testing.T) {
	// Human is X; computer fills row 2 with picks 5, 4, 3.
	e := New(WithChooser(bot.NewSequenceChooser(0, 5, 4, 3)))
	e.StartMatch(context.Background(), "Ann")

	final := play(t, e,
		game.Position{Row: 0, Col: 0},
		game.Position{Row: 0, Col: 1},
		game.Position{Row: 1, Col: 0},
	)

	assert.Equal(t, game.Won, final.Outcome)
	assert.Equal(t, Computer, final.Winner)
	assert.Equal(t, game.PlayerO, final.WinningMark)
	require.NotNil(t, final.ComputerMove)
	assert.Equal(t, game.Position{Row: 2, Col: 2}, *final.ComputerMove)
	assert.Equal(t, "Computer Wins!", final.Status)
	assert.Equal(t, ScoreBoard{ComputerWins: 1}, final.Score)
}

func TestApplyHumanMove_Tie(t *testing.T) {
	e := New(WithChooser(bot.NewSequenceChooser(0, 3, 0, 1, 0)))
	e.StartMatch(context.Background(), "Ann")

	final := play(t, e,
		game.Position{Row: 0, Col: 0},
		game.Position{Row: 0, Col: 2},
		game.Position{Row: 2, Col: 1},
		game.Position{Row: 1, Col: 0},
		game.Position{Row: 2, Col: 2},
	)

	expected := game.Board{
		{game.PlayerX, game.PlayerO, game.PlayerX},
		{game.PlayerX, game.PlayerO, game.PlayerO},
		{game.PlayerO, game.PlayerX, game.PlayerX},
	}
	assert.Equal(t, expected, final.Board)
	assert.Equal(t, game.Tied, final.Outcome)
	assert.Equal(t, Nobody, final.Winner)
	assert.Equal(t, "It's a tie!", final.Status)
	assert.Equal(t, ScoreBoard{Ties: 1}, final.Score)
}

func TestApplyHumanMove_TerminalMatchIsNoOp(t *testing.T) {
	e := New(WithChooser(bot.NewSequenceChooser(0, 2, 1)))
	e.StartMatch(context.Background(), "Ann")
	final := play(t, e,
		game.Position{Row: 0, Col: 0},
		game.Position{Row: 0, Col: 1},
		game.Position{Row: 0, Col: 2},
	)
	require.Equal(t, game.Won, final.Outcome)

	before := e.Snapshot()
	result, err := e.ApplyHumanMove(context.Background(), 2, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMove)
	assert.ErrorIs(t, err, ErrMatchFinished)
	assert.False(t, result.Accepted)
	assert.Equal(t, final.Board, result.Board)
	assert.Equal(t, game.Won, result.Outcome)
	assert.Equal(t, before, e.Snapshot())
	assert.Equal(t, ScoreBoard{HumanWins: 1}, e.Score())
}

func TestApplyHumanMove_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
		reason   error
	}{
		{"occupied", 1, 0, game.ErrCellOccupied},
		{"own cell", 0, 0, game.ErrCellOccupied},
		{"row too small", -1, 0, game.ErrOutOfBounds},
		{"row too large", 3, 0, game.ErrOutOfBounds},
		{"col too large", 0, 3, game.ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Human X at (0,0), computer O at (1,0).
			e := New(WithChooser(bot.NewSequenceChooser(0, 2)))
			e.StartMatch(context.Background(), "Ann")
			play(t, e, game.Position{Row: 0, Col: 0})
			before := e.Snapshot()

			result, err := e.ApplyHumanMove(context.Background(), tt.row, tt.col)

			assert.ErrorIs(t, err, ErrInvalidMove)
			assert.ErrorIs(t, err, tt.reason)
			assert.False(t, result.Accepted)
			assert.Equal(t, before.Board, result.Board)
			assert.Equal(t, before, e.Snapshot())
		})
	}
}

func TestApplyHumanMove_NoActiveMatch(t *testing.T) {
	e := New()

	result, err := e.ApplyHumanMove(context.Background(), 0, 0)

	assert.ErrorIs(t, err, ErrInvalidMove)
	assert.ErrorIs(t, err, ErrNoActiveMatch)
	assert.False(t, result.Accepted)
	assert.Equal(t, game.Board{}, result.Board)
	assert.False(t, e.Snapshot().Started)
}

func TestApplyHumanMove_NotYourTurn(t *testing.T) {
	e := New(WithChooser(bot.NewSequenceChooser(0)))
	e.StartMatch(context.Background(), "Ann")

	// Force the turn onto the computer's mark.
	e.mu.Lock()
	e.turn = e.computerMark
	e.mu.Unlock()

	_, err := e.ApplyHumanMove(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrNotYourTurn)
	assert.Equal(t, game.Board{}, e.Snapshot().Board)
}

func TestApplyHumanMove_MatchStateBeforeBoard(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
	}{
		{"off the board", 5, 5},
		{"open cell", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithChooser(bot.NewSequenceChooser(0)))
			e.StartMatch(context.Background(), "Ann")
			e.mu.Lock()
			e.turn = e.computerMark
			e.mu.Unlock()

			result, err := e.ApplyHumanMove(context.Background(), tt.row, tt.col)

			assert.ErrorIs(t, err, ErrNotYourTurn)
			assert.NotErrorIs(t, err, game.ErrOutOfBounds)
			assert.False(t, result.Accepted)
			assert.Equal(t, game.Board{}, e.Snapshot().Board)
		})
	}
}

func TestStartMatch_KeepsScore(t *testing.T) {
	e := New(WithChooser(bot.NewSequenceChooser(0, 2, 1)))
	e.StartMatch(context.Background(), "Ann")
	play(t, e,
		game.Position{Row: 0, Col: 0},
		game.Position{Row: 0, Col: 1},
		game.Position{Row: 0, Col: 2},
	)

	info := e.StartMatch(context.Background(), "Ann")

	assert.Equal(t, ScoreBoard{HumanWins: 1}, e.Score())
	assert.Equal(t, game.InProgress, e.Snapshot().Outcome)
	assert.Equal(t, info.Board, e.Snapshot().Board)
}

func TestRandomMatches_ScoreAndBalance(t *testing.T) {
	e := New()
	const matches = 200

	for i := 0; i < matches; i++ {
		info := e.StartMatch(context.Background(), "Ann")
		assertBalanced(t, info.Board)

		snap := e.Snapshot()
		for snap.Outcome == game.InProgress {
			require.Equal(t, snap.HumanMark, snap.Next)
			cells := snap.Board.EmptyCells()
			require.NotEmpty(t, cells)

			result, err := e.ApplyHumanMove(context.Background(), cells[0].Row, cells[0].Col)
			require.NoError(t, err)
			assertBalanced(t, result.Board)
			snap = e.Snapshot()
		}
	}

	score := e.Score()
	assert.Equal(t, matches, score.MatchesPlayed())
	assert.Equal(t, score, e.Score(), "Score must be idempotent")
}

// assertBalanced checks that X never trails O and never leads by more than one.
func assertBalanced(t *testing.T, b game.Board) {
	t.Helper()
	x, o := b.Count(game.PlayerX), b.Count(game.PlayerO)
	assert.GreaterOrEqual(t, x, o)
	assert.LessOrEqual(t, x-o, 1)
}

func TestResetScore(t *testing.T) {
	e := New(WithChooser(bot.NewSequenceChooser(0, 2, 1)))
	e.StartMatch(context.Background(), "Ann")
	play(t, e, game.Position{Row: 0, Col: 0})

	// Seed the tallies, then reset mid-match.
	e.mu.Lock()
	e.score = ScoreBoard{HumanWins: 2, ComputerWins: 1, Ties: 3}
	e.mu.Unlock()
	before := e.Snapshot()

	assert.Equal(t, ScoreBoard{}, e.ResetScore(context.Background()))
	assert.Equal(t, ScoreBoard{}, e.Score())

	after := e.Snapshot()
	assert.Equal(t, before.Board, after.Board)
	assert.Equal(t, before.Outcome, after.Outcome)
	assert.Equal(t, before.Next, after.Next)
}

func TestEngine_PublishesEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)

	gomock.InOrder(
		publisher.EXPECT().Publish(gomock.Any(), eventType(events.TypeMatchStarted)).Return(nil),
		publisher.EXPECT().Publish(gomock.Any(), eventType(events.TypeMatchFinished)).Return(nil),
		publisher.EXPECT().Publish(gomock.Any(), eventType(events.TypeScoreReset)).Return(nil),
	)

	e := New(
		WithID("session-1"),
		WithPublisher(publisher),
		WithChooser(bot.NewSequenceChooser(0, 2, 1)),
	)
	e.StartMatch(context.Background(), "Ann")
	play(t, e,
		game.Position{Row: 0, Col: 0},
		game.Position{Row: 0, Col: 1},
		game.Position{Row: 0, Col: 2},
	)
	e.ResetScore(context.Background())
}

func TestEngine_PublishErrorDoesNotFailMove(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down")).AnyTimes()

	e := New(WithPublisher(publisher), WithChooser(bot.NewSequenceChooser(0, 2, 1)))
	e.StartMatch(context.Background(), "Ann")
	final := play(t, e,
		game.Position{Row: 0, Col: 0},
		game.Position{Row: 0, Col: 1},
		game.Position{Row: 0, Col: 2},
	)

	assert.Equal(t, game.Won, final.Outcome)
	assert.Equal(t, ScoreBoard{HumanWins: 1}, e.Score())
}

func TestEngine_ConcurrentMoves(t *testing.T) {
	e := New()
	e.StartMatch(context.Background(), "Ann")

	var wg sync.WaitGroup
	for i := 0; i < 9; i++ {
		wg.Add(1)
		go func(cell int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, _ = e.ApplyHumanMove(context.Background(), cell/3, cell%3)
				snap := e.Snapshot()
				assertBalanced(t, snap.Board)
				if snap.Outcome != game.InProgress {
					e.StartMatch(context.Background(), "Ann")
				}
				_ = e.Score()
			}
		}(i)
	}
	wg.Wait()

	assertBalanced(t, e.Snapshot().Board)
}
