package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/hoops-sim/internal/services"
	"github.com/stitts-dev/hoops-sim/pkg/utils"
)

type PlayerHandler struct {
	players *services.PlayerService
}

func NewPlayerHandler(players *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{players: players}
}

// SearchPlayers matches ?name= against full, first and last names
func (h *PlayerHandler) SearchPlayers(c *gin.Context) {
	term := c.Query("name")
	if term == "" {
		utils.SendValidationError(c, "Missing search term", "name query parameter is required")
		return
	}

	names, err := h.players.Search(term)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{"names": names, "count": len(names)})
}

// GetPlayer returns one player's career stats by full name
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	player, err := h.players.Get(c.Param("name"))
	if err != nil {
		sendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, player)
}

type lookupRequest struct {
	Names []string `json:"names" binding:"required,min=1,max=50"`
}

// LookupPlayers returns several players in request order
func (h *PlayerHandler) LookupPlayers(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	for i, name := range req.Names {
		req.Names[i] = strings.TrimSpace(name)
	}

	players, err := h.players.Lookup(req.Names)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, players)
}
