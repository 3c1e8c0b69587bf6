package room

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"ctchen222/Tic-Tac-Toe-Solo/internal/engine"
	"ctchen222/Tic-Tac-Toe-Solo/internal/validator"
	"ctchen222/Tic-Tac-Toe-Solo/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleMessage handles a message from the player. It acts as a dispatcher.
func (r *Room) HandleMessage(ctx context.Context, rawMessage []byte) {
	ctx, span := tracer.Start(ctx, "room.HandleMessage", trace.WithAttributes(
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.ErrorContext(ctx, "error unmarshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		r.sendError(ctx, "malformed message")
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "session.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		r.sendError(ctx, err.Error())
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case proto.TypeStart:
		r.handleStart(ctx, &message)
	case proto.TypeMove:
		r.handleMove(ctx, &message)
	case proto.TypeScore:
		r.handleScore(ctx)
	case proto.TypeResetScore:
		r.handleResetScore(ctx)
	}
}

// handleStart begins a new match.
func (r *Room) handleStart(ctx context.Context, message *proto.ClientToServerMessage) {
	info, err := r.service.StartMatch(ctx, r.ID, message.Name)
	if err != nil {
		slog.ErrorContext(ctx, "could not start match", "session.id", r.ID, "error", err)
		r.sendError(ctx, err.Error())
		return
	}
	r.send(ctx, proto.NewMatchStarted(r.ID, info))
}

// handleMove processes the player's move and reports the computer's reply with it.
func (r *Room) handleMove(ctx context.Context, message *proto.ClientToServerMessage) {
	if len(message.Position) != 2 {
		r.sendError(ctx, "position must be [row, col]")
		return
	}

	ctx, moveSpan := tracer.Start(ctx, "room.handleMove", trace.WithAttributes(
		attribute.String("session.id", r.ID),
		attribute.Int("move.row", message.Position[0]),
		attribute.Int("move.col", message.Position[1]),
	))
	defer moveSpan.End()

	result, err := r.service.ApplyMove(ctx, r.ID, message.Position[0], message.Position[1])
	if errors.Is(err, engine.ErrInvalidMove) {
		moveSpan.SetAttributes(attribute.Bool("move.valid", false))
		reply := proto.NewUpdate(proto.TypeInvalidMove, result)
		reply.Reason = err.Error()
		r.send(ctx, reply)
		return
	}
	if err != nil {
		moveSpan.RecordError(err)
		moveSpan.SetStatus(codes.Error, "Move failed")
		r.sendError(ctx, err.Error())
		return
	}
	moveSpan.SetAttributes(attribute.Bool("move.valid", true))
	r.send(ctx, proto.NewUpdate(proto.TypeUpdate, result))
}

func (r *Room) handleScore(ctx context.Context) {
	score, err := r.service.Score(ctx, r.ID)
	if err != nil {
		r.sendError(ctx, err.Error())
		return
	}
	r.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeScoreBoard, Score: &score})
}

func (r *Room) handleResetScore(ctx context.Context) {
	score, err := r.service.ResetScore(ctx, r.ID)
	if err != nil {
		r.sendError(ctx, err.Error())
		return
	}
	r.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeScoreBoard, Score: &score})
}

func (r *Room) sendError(ctx context.Context, reason string) {
	r.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeError, Reason: reason})
}
