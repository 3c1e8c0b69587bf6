// Package session keeps one engine per connected client, keyed by a random ID.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"ctchen222/Tic-Tac-Toe-Solo/internal/engine"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("session")

var ErrSessionNotFound = errors.New("session not found")

// Factory builds the engine for a new session.
type Factory func(id string) *engine.Engine

type entry struct {
	engine   *engine.Engine
	lastSeen time.Time
}

// Store holds live sessions in memory. Sessions are lost when the process exits.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	factory  Factory
	now      func() time.Time
}

// NewStore creates an empty store. A nil factory creates engines with default options.
func NewStore(factory Factory) *Store {
	if factory == nil {
		factory = func(id string) *engine.Engine {
			return engine.New(engine.WithID(id))
		}
	}
	return &Store{
		sessions: make(map[string]*entry),
		factory:  factory,
		now:      time.Now,
	}
}

// Create registers a new session and returns its ID and engine.
func (s *Store) Create(ctx context.Context) (string, *engine.Engine) {
	id := uuid.New().String()
	e := s.factory(id)

	s.mu.Lock()
	s.sessions[id] = &entry{engine: e, lastSeen: s.now()}
	s.mu.Unlock()

	slog.InfoContext(ctx, "Session created", "session.id", id)
	return id, e
}

// Get returns the engine for id and marks the session as active.
func (s *Store) Get(id string) (*engine.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	ent.lastSeen = s.now()
	return ent.engine, nil
}

// Touch marks the session as active without returning its engine.
func (s *Store) Touch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	ent.lastSeen = s.now()
	return nil
}

// Delete removes a session. Deleting an unknown ID returns ErrSessionNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	slog.InfoContext(ctx, "Session deleted", "session.id", id)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than maxIdle and returns how many were removed.
func (s *Store) Sweep(ctx context.Context, maxIdle time.Duration) int {
	_, span := tracer.Start(ctx, "session.Sweep", trace.WithAttributes(
		attribute.String("session.max_idle", maxIdle.String()),
	))
	defer span.End()

	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	removed := 0
	for id, ent := range s.sessions {
		if ent.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("session.removed", removed), attribute.Int("session.remaining", remaining))
	if removed > 0 {
		slog.InfoContext(ctx, "Evicted idle sessions", "session.removed", removed, "session.remaining", remaining)
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Session sweeper started", "interval", interval, "max_idle", maxIdle)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Session sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx, maxIdle)
		}
	}
}
