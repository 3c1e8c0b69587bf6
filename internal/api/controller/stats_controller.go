package controller

import (
	"ctchen222/Tic-Tac-Toe-Solo/internal/api/response"
	"ctchen222/Tic-Tac-Toe-Solo/internal/hub"

	"github.com/gin-gonic/gin"
)

// StatsController serves server-wide match statistics.
type StatsController struct {
	hub *hub.Hub
}

// NewStatsController creates a new StatsController.
func NewStatsController(h *hub.Hub) *StatsController {
	return &StatsController{hub: h}
}

// GetStats returns totals over every session.
func (sc *StatsController) GetStats(c *gin.Context) {
	response.SuccessResponse(c, sc.hub.Stats())
}
