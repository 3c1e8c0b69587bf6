package service

import (
	"context"
	"fmt"

	"ctchen222/Tic-Tac-Toe-Solo/internal/engine"
	"ctchen222/Tic-Tac-Toe-Solo/internal/session"
)

// GameService defines the interface for session and match operations.
type GameService interface {
	CreateSession(ctx context.Context) string
	// Attach returns id if it names a live session, otherwise a fresh session.
	Attach(ctx context.Context, id string) string
	// KeepAlive holds off idle eviction for a session whose client is still connected.
	KeepAlive(ctx context.Context, id string) error
	DeleteSession(ctx context.Context, id string) error
	StartMatch(ctx context.Context, id, name string) (engine.MatchInfo, error)
	ApplyMove(ctx context.Context, id string, row, col int) (engine.MoveResult, error)
	Score(ctx context.Context, id string) (engine.ScoreBoard, error)
	ResetScore(ctx context.Context, id string) (engine.ScoreBoard, error)
	Snapshot(ctx context.Context, id string) (engine.Snapshot, error)
}

type gameService struct {
	store *session.Store
}

// NewGameService creates a new GameService.
func NewGameService(store *session.Store) GameService {
	return &gameService{store: store}
}

func (s *gameService) CreateSession(ctx context.Context) string {
	id, _ := s.store.Create(ctx)
	return id
}

func (s *gameService) Attach(ctx context.Context, id string) string {
	if id != "" {
		if _, err := s.store.Get(id); err == nil {
			return id
		}
	}
	return s.CreateSession(ctx)
}

func (s *gameService) KeepAlive(ctx context.Context, id string) error {
	if err := s.store.Touch(id); err != nil {
		return fmt.Errorf("session %s: %w", id, err)
	}
	return nil
}

func (s *gameService) DeleteSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (s *gameService) StartMatch(ctx context.Context, id, name string) (engine.MatchInfo, error) {
	e, err := s.engine(id)
	if err != nil {
		return engine.MatchInfo{}, err
	}
	return e.StartMatch(ctx, name), nil
}

// ApplyMove returns the engine's MoveResult even when the move is rejected.
func (s *gameService) ApplyMove(ctx context.Context, id string, row, col int) (engine.MoveResult, error) {
	e, err := s.engine(id)
	if err != nil {
		return engine.MoveResult{}, err
	}
	return e.ApplyHumanMove(ctx, row, col)
}

func (s *gameService) Score(ctx context.Context, id string) (engine.ScoreBoard, error) {
	e, err := s.engine(id)
	if err != nil {
		return engine.ScoreBoard{}, err
	}
	return e.Score(), nil
}

func (s *gameService) ResetScore(ctx context.Context, id string) (engine.ScoreBoard, error) {
	e, err := s.engine(id)
	if err != nil {
		return engine.ScoreBoard{}, err
	}
	return e.ResetScore(ctx), nil
}

func (s *gameService) Snapshot(ctx context.Context, id string) (engine.Snapshot, error) {
	e, err := s.engine(id)
	if err != nil {
		return engine.Snapshot{}, err
	}
	return e.Snapshot(), nil
}

func (s *gameService) engine(id string) (*engine.Engine, error) {
	e, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return e, nil
}
