// Package room serves one websocket player against the computer, relaying
// client messages to the session's engine.
package room

import (
	"context"
	"log/slog"
	"time"

	"ctchen222/Tic-Tac-Toe-Solo/internal/api/service"
	"ctchen222/Tic-Tac-Toe-Solo/internal/player"
	"ctchen222/Tic-Tac-Toe-Solo/pkg/proto"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

const (
	heartbeatInterval = 10 * time.Second
)

var tracer = otel.Tracer("room")

// Room binds a connected player to a session.
type Room struct {
	ID        string
	service   service.GameService
	Player    *player.Player
	incoming  chan []byte
	closed    chan struct{}
	heartbeat time.Duration
}

// NewRoom creates a room for the player's session.
func NewRoom(svc service.GameService, p *player.Player) *Room {
	return &Room{
		ID:        p.SessionID,
		service:   svc,
		Player:    p,
		incoming:  make(chan []byte, 10),
		closed:    make(chan struct{}),
		heartbeat: heartbeatInterval,
	}
}

// Run announces the session to the player, then handles messages until the
// connection drops or ctx is cancelled. All writes happen on this goroutine.
func (r *Room) Run(ctx context.Context) {
	go r.ReadPump(ctx)

	pingTicker := time.NewTicker(r.heartbeat)
	defer pingTicker.Stop()

	r.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeSession, SessionID: r.ID})

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Room stopping", "session.id", r.ID)
			r.Player.Conn.Close()
			return

		case <-r.closed:
			slog.InfoContext(ctx, "Player left room", "session.id", r.ID)
			return

		case msg := <-r.incoming:
			r.HandleMessage(ctx, msg)

		case <-pingTicker.C:
			if err := r.Player.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.WarnContext(ctx, "Failed to send ping to player, assuming disconnect", "session.id", r.ID, "error", err)
				continue
			}
			// A connected player keeps the session, and its score, alive.
			if err := r.service.KeepAlive(ctx, r.ID); err != nil {
				slog.WarnContext(ctx, "Failed to keep session alive", "session.id", r.ID, "error", err)
			}
		}
	}
}
