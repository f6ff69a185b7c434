package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/hoops-sim/internal/services"
	"github.com/stitts-dev/hoops-sim/pkg/utils"
)

type SimulateHandler struct {
	games *services.GameService
}

func NewSimulateHandler(games *services.GameService) *SimulateHandler {
	return &SimulateHandler{games: games}
}

// Simulate plays a single game from a list of home player names
func (h *SimulateHandler) Simulate(c *gin.Context) {
	var req services.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.MaxAttempts < 0 {
		utils.SendValidationError(c, "max_attempts must not be negative", "")
		return
	}

	result, err := h.games.Simulate(c.Request.Context(), req)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	sendPlayResult(c, result, result)
}
