// Package engine runs tic-tac-toe matches between one human and the computer
// and keeps the session score across matches.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"ctchen222/Tic-Tac-Toe-Solo/internal/bot"
	"ctchen222/Tic-Tac-Toe-Solo/internal/events"
	"ctchen222/Tic-Tac-Toe-Solo/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultPlayerName   = "Player"
	DefaultComputerName = "Computer"
)

var tracer = otel.Tracer("engine")

// Participant identifies who won a match.
type Participant string

const (
	Nobody   Participant = ""
	Human    Participant = "human"
	Computer Participant = "computer"
)

// MatchInfo is returned when a match starts.
type MatchInfo struct {
	PlayerName   string          `json:"player_name"`
	HumanMark    game.PlayerMark `json:"human_mark"`
	ComputerMark game.PlayerMark `json:"computer_mark"`
	Board        game.Board      `json:"board"`
	Next         game.PlayerMark `json:"next"`
	ComputerMove *game.Position  `json:"computer_move,omitempty"`
	Status       string          `json:"status"`
}

// MoveResult is the composite outcome of one human interaction, including the
// computer's reply when the match continued.
type MoveResult struct {
	Accepted     bool            `json:"accepted"`
	Board        game.Board      `json:"board"`
	Outcome      game.Outcome    `json:"outcome"`
	Winner       Participant     `json:"winner,omitempty"`
	WinningMark  game.PlayerMark `json:"winning_mark,omitempty"`
	Next         game.PlayerMark `json:"next,omitempty"`
	ComputerMove *game.Position  `json:"computer_move,omitempty"`
	Status       string          `json:"status"`
	Score        ScoreBoard      `json:"score"`
}

// Snapshot is a read-only view of the engine.
type Snapshot struct {
	Started      bool            `json:"started"`
	PlayerName   string          `json:"player_name,omitempty"`
	HumanMark    game.PlayerMark `json:"human_mark,omitempty"`
	ComputerMark game.PlayerMark `json:"computer_mark,omitempty"`
	Board        game.Board      `json:"board"`
	Outcome      game.Outcome    `json:"outcome,omitempty"`
	Winner       Participant     `json:"winner,omitempty"`
	WinningMark  game.PlayerMark `json:"winning_mark,omitempty"`
	Next         game.PlayerMark `json:"next,omitempty"`
	Status       string          `json:"status,omitempty"`
	Score        ScoreBoard      `json:"score"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithID tags logs, spans and events with a session identifier.
func WithID(id string) Option {
	return func(e *Engine) { e.id = id }
}

// WithChooser injects the source of randomness for mark assignment and computer moves.
func WithChooser(chooser bot.Chooser) Option {
	return func(e *Engine) { e.calculator = bot.NewMoveCalculator(chooser) }
}

// WithPublisher sets where match events are delivered.
func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

// WithDefaultName overrides the name used when the human supplies none.
func WithDefaultName(name string) Option {
	return func(e *Engine) {
		if name = strings.TrimSpace(name); name != "" {
			e.defaultName = name
		}
	}
}

// WithComputerName overrides the computer's display name.
func WithComputerName(name string) Option {
	return func(e *Engine) {
		if name = strings.TrimSpace(name); name != "" {
			e.computerName = name
		}
	}
}

// Engine owns one session: the current match and the score board.
// All methods are safe for concurrent use; a human move and the computer's
// reply are applied under a single lock.
type Engine struct {
	mu sync.Mutex

	id           string
	defaultName  string
	computerName string
	calculator   *bot.MoveCalculator
	publisher    events.Publisher
	metrics      *metrics

	started      bool
	playerName   string
	board        game.Board
	turn         game.PlayerMark
	humanMark    game.PlayerMark
	computerMark game.PlayerMark
	outcome      game.Outcome
	winningMark  game.PlayerMark
	status       string
	score        ScoreBoard

	// events produced under mu, published once it is released
	pending []events.Event
}

// New creates an engine with no active match and an empty score board.
func New(opts ...Option) *Engine {
	e := &Engine{
		defaultName:  DefaultPlayerName,
		computerName: DefaultComputerName,
		calculator:   bot.NewMoveCalculator(nil),
		publisher:    events.NopPublisher{},
		metrics:      newMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the session identifier the engine was created with.
func (e *Engine) ID() string {
	return e.id
}

// StartMatch clears the board, re-draws the marks and hands the first turn to X.
// When the computer holds X it opens before StartMatch returns.
func (e *Engine) StartMatch(ctx context.Context, humanName string) MatchInfo {
	ctx, span := tracer.Start(ctx, "engine.StartMatch", trace.WithAttributes(
		attribute.String("session.id", e.id),
	))
	defer span.End()

	e.mu.Lock()

	name := strings.TrimSpace(humanName)
	if name == "" {
		name = e.defaultName
	}
	e.playerName = name
	e.board = game.Board{}
	e.outcome = game.InProgress
	e.winningMark = game.None
	e.turn = game.PlayerX
	e.started = true

	opening := fmt.Sprintf("%s, get ready!", name)
	if e.calculator.CoinFlip() {
		e.humanMark, e.computerMark = game.PlayerX, game.PlayerO
		opening += "\nYou are X."
	} else {
		e.humanMark, e.computerMark = game.PlayerO, game.PlayerX
		opening += "\nComputer is X."
	}

	e.queue(ctx, events.TypeMatchStarted, events.MatchStartedPayload{
		SessionID:  e.id,
		PlayerName: name,
		HumanMark:  e.humanMark,
		StartedAt:  time.Now().UTC(),
	})

	var opened *game.Position
	if e.computerMark == game.PlayerX {
		opened = e.computerMove(ctx)
	}
	e.status = opening

	info := MatchInfo{
		PlayerName:   e.playerName,
		HumanMark:    e.humanMark,
		ComputerMark: e.computerMark,
		Board:        e.board,
		Next:         e.turn,
		ComputerMove: opened,
		Status:       e.status,
	}
	pending := e.drain()
	e.mu.Unlock()

	span.SetAttributes(
		attribute.String("match.human_mark", string(info.HumanMark)),
		attribute.Bool("match.computer_opened", opened != nil),
	)
	slog.InfoContext(ctx, "Match started", "session.id", e.id, "player.name", name, "human.mark", info.HumanMark)

	e.publish(ctx, pending)
	return info
}

// ApplyHumanMove places the human's mark at (row, col). If the match goes on,
// the computer replies before the call returns. A rejected move leaves every
// piece of state untouched and returns an error wrapping ErrInvalidMove.
func (e *Engine) ApplyHumanMove(ctx context.Context, row, col int) (MoveResult, error) {
	ctx, span := tracer.Start(ctx, "engine.ApplyHumanMove", trace.WithAttributes(
		attribute.String("session.id", e.id),
		attribute.Int("move.row", row),
		attribute.Int("move.col", col),
	))
	defer span.End()

	e.mu.Lock()

	// The board reports bounds and occupancy; the match state is checked first.
	reason := e.checkHumanMove()
	if reason == nil {
		reason = e.board.Place(row, col, e.humanMark)
	}
	if reason != nil {
		result := e.result(false, nil)
		e.mu.Unlock()

		label := reasonLabel(reason)
		e.metrics.moveRejected(ctx, label)
		slog.WarnContext(ctx, "Rejected human move", "session.id", e.id, "move.row", row, "move.col", col, "reason", label)

		err := invalidMove(reason)
		span.SetAttributes(attribute.Bool("move.valid", false))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid move")
		return result, err
	}

	e.afterPlacement(ctx, e.humanMark)

	var reply *game.Position
	if e.outcome == game.InProgress {
		reply = e.computerMove(ctx)
	}

	result := e.result(true, reply)
	pending := e.drain()
	e.mu.Unlock()

	span.SetAttributes(
		attribute.Bool("move.valid", true),
		attribute.String("match.outcome", string(result.Outcome)),
	)
	e.publish(ctx, pending)
	return result, nil
}

// Score returns a copy of the score board.
func (e *Engine) Score() ScoreBoard {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// ResetScore zeroes all counters. The current match is not affected.
func (e *Engine) ResetScore(ctx context.Context) ScoreBoard {
	e.mu.Lock()
	e.score = ScoreBoard{}
	e.queue(ctx, events.TypeScoreReset, events.ScoreResetPayload{SessionID: e.id})
	pending := e.drain()
	e.mu.Unlock()

	slog.InfoContext(ctx, "Score reset", "session.id", e.id)
	e.publish(ctx, pending)
	return ScoreBoard{}
}

// Snapshot returns the current match and score.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot{
		Started:      e.started,
		PlayerName:   e.playerName,
		HumanMark:    e.humanMark,
		ComputerMark: e.computerMark,
		Board:        e.board,
		Outcome:      e.outcome,
		Winner:       e.winner(),
		WinningMark:  e.winningMark,
		Next:         e.turn,
		Status:       e.status,
		Score:        e.score,
	}
}

// checkHumanMove returns the reason the match cannot take a human move, or nil.
func (e *Engine) checkHumanMove() error {
	switch {
	case !e.started:
		return ErrNoActiveMatch
	case e.outcome != game.InProgress:
		return ErrMatchFinished
	case e.turn != e.humanMark:
		return ErrNotYourTurn
	}
	return nil
}

// computerMove plays one random open cell for the computer. Must hold mu.
func (e *Engine) computerMove(ctx context.Context) *game.Position {
	ctx, span := tracer.Start(ctx, "engine.computerMove", trace.WithAttributes(
		attribute.String("session.id", e.id),
	))
	defer span.End()

	if e.outcome != game.InProgress || e.turn != e.computerMark {
		span.SetStatus(codes.Error, "Computer move out of turn")
		return nil
	}

	row, col := e.calculator.CalculateNextMove(e.board)
	if row == -1 {
		slog.WarnContext(ctx, "Computer has no open cell", "session.id", e.id)
		span.SetStatus(codes.Error, "No open cell")
		return nil
	}

	if err := e.board.Place(row, col, e.computerMark); err != nil {
		slog.ErrorContext(ctx, "Computer move rejected by board", "session.id", e.id, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Computer move rejected")
		return nil
	}
	span.SetAttributes(attribute.Int("move.row", row), attribute.Int("move.col", col))

	e.afterPlacement(ctx, e.computerMark)
	return &game.Position{Row: row, Col: col}
}

// afterPlacement evaluates the board for the mark just placed and settles the
// score or hands over the turn. Must hold mu.
func (e *Engine) afterPlacement(ctx context.Context, mark game.PlayerMark) {
	e.outcome = game.Evaluate(e.board, mark)

	switch e.outcome {
	case game.Won:
		e.winningMark = mark
		if mark == e.humanMark {
			e.score.HumanWins++
			e.status = fmt.Sprintf("%s Wins!", e.playerName)
		} else {
			e.score.ComputerWins++
			e.status = fmt.Sprintf("%s Wins!", e.computerName)
		}
		e.finish(ctx)
	case game.Tied:
		e.score.Ties++
		e.status = "It's a tie!"
		e.finish(ctx)
	default:
		e.turn = mark.Opponent()
		e.status = e.turnStatus()
	}
}

func (e *Engine) finish(ctx context.Context) {
	e.turn = game.None
	result := e.resultLabel()

	e.metrics.matchCompleted(ctx, result)
	e.queue(ctx, events.TypeMatchFinished, events.MatchFinishedPayload{
		SessionID:   e.id,
		Result:      result,
		WinningMark: e.winningMark,
		Score:       e.score.payload(),
	})
	slog.InfoContext(ctx, "Match finished", "session.id", e.id, "result", result,
		"score.human_wins", e.score.HumanWins, "score.computer_wins", e.score.ComputerWins, "score.ties", e.score.Ties)
}

func (e *Engine) turnStatus() string {
	if e.turn == e.humanMark {
		return fmt.Sprintf("%s's turn (%s)", e.playerName, e.turn)
	}
	return fmt.Sprintf("%s's turn (%s)", e.computerName, e.turn)
}

func (e *Engine) winner() Participant {
	switch {
	case e.outcome != game.Won:
		return Nobody
	case e.winningMark == e.humanMark:
		return Human
	default:
		return Computer
	}
}

func (e *Engine) resultLabel() string {
	switch e.winner() {
	case Human:
		return "human_win"
	case Computer:
		return "computer_win"
	default:
		return "tie"
	}
}

func (e *Engine) result(accepted bool, reply *game.Position) MoveResult {
	return MoveResult{
		Accepted:     accepted,
		Board:        e.board,
		Outcome:      e.outcome,
		Winner:       e.winner(),
		WinningMark:  e.winningMark,
		Next:         e.turn,
		ComputerMove: reply,
		Status:       e.status,
		Score:        e.score,
	}
}

// queue records an event for publication. Must hold mu.
func (e *Engine) queue(ctx context.Context, eventType string, payload any) {
	event, err := events.New(eventType, payload)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build event", "session.id", e.id, "event.type", eventType, "error", err)
		return
	}
	e.pending = append(e.pending, event)
}

func (e *Engine) drain() []events.Event {
	pending := e.pending
	e.pending = nil
	return pending
}

func (e *Engine) publish(ctx context.Context, pending []events.Event) {
	for _, event := range pending {
		if err := e.publisher.Publish(ctx, event); err != nil {
			slog.ErrorContext(ctx, "Failed to publish event", "session.id", e.id, "event.type", event.Type, "error", err)
			trace.SpanFromContext(ctx).RecordError(err)
		}
	}
}
