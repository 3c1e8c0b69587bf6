package controller

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"ctchen222/Tic-Tac-Toe-Solo/internal/api/models"
	"ctchen222/Tic-Tac-Toe-Solo/internal/api/response"
	"ctchen222/Tic-Tac-Toe-Solo/internal/api/service"
	"ctchen222/Tic-Tac-Toe-Solo/internal/engine"
	"ctchen222/Tic-Tac-Toe-Solo/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionController handles session and match HTTP requests.
type SessionController struct {
	gameService service.GameService
}

// NewSessionController creates a new SessionController.
func NewSessionController(gameService service.GameService) *SessionController {
	return &SessionController{
		gameService: gameService,
	}
}

// CreateSession opens a new session with an empty score board.
func (sc *SessionController) CreateSession(c *gin.Context) {
	id := sc.gameService.CreateSession(c.Request.Context())
	response.CreatedResponse(c, models.SessionResponse{SessionID: id})
}

// DeleteSession discards a session and its score.
func (sc *SessionController) DeleteSession(c *gin.Context) {
	if err := sc.gameService.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		sc.fail(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"message": "Session deleted"})
}

// StartMatch begins a new match in the session.
func (sc *SessionController) StartMatch(c *gin.Context) {
	var req models.StartMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	info, err := sc.gameService.StartMatch(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		sc.fail(c, err)
		return
	}
	response.SuccessResponse(c, info)
}

// ApplyMove plays the human's move and the computer's reply.
func (sc *SessionController) ApplyMove(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := sc.gameService.ApplyMove(c.Request.Context(), c.Param("id"), *req.Row, *req.Col)
	if errors.Is(err, engine.ErrInvalidMove) {
		response.ErrorResponseData(c, http.StatusConflict, err.Error(), result)
		return
	}
	if err != nil {
		sc.fail(c, err)
		return
	}
	response.SuccessResponse(c, result)
}

// GetScore returns the session score board.
func (sc *SessionController) GetScore(c *gin.Context) {
	score, err := sc.gameService.Score(c.Request.Context(), c.Param("id"))
	if err != nil {
		sc.fail(c, err)
		return
	}
	response.SuccessResponse(c, score)
}

// ResetScore zeroes the session score board.
func (sc *SessionController) ResetScore(c *gin.Context) {
	score, err := sc.gameService.ResetScore(c.Request.Context(), c.Param("id"))
	if err != nil {
		sc.fail(c, err)
		return
	}
	response.SuccessResponse(c, score)
}

// GetSession returns the current match and score.
func (sc *SessionController) GetSession(c *gin.Context) {
	snap, err := sc.gameService.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		sc.fail(c, err)
		return
	}
	response.SuccessResponse(c, snap)
}

func (sc *SessionController) fail(c *gin.Context, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		response.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	slog.ErrorContext(c.Request.Context(), "Request failed", "path", c.FullPath(), "error", err)
	response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
}
