package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/hoops-sim/internal/game"
	"github.com/stitts-dev/hoops-sim/internal/services"
	"github.com/stitts-dev/hoops-sim/pkg/utils"
)

type SessionHandler struct {
	games *services.GameService
}

func NewSessionHandler(games *services.GameService) *SessionHandler {
	return &SessionHandler{games: games}
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	session, err := h.games.CreateSession(c.Request.Context())
	if err != nil {
		sendServiceError(c, err)
		return
	}
	utils.SendCreated(c, session)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.games.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, session)
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.games.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		sendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{"deleted": c.Param("id")})
}

type addPlayerRequest struct {
	FullName string `json:"full_name" binding:"required"`
}

func (h *SessionHandler) AddHomePlayer(c *gin.Context) {
	var req addPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	session, err := h.games.AddHomePlayer(c.Request.Context(), c.Param("id"), req.FullName)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, session)
}

func (h *SessionHandler) RemoveHomePlayer(c *gin.Context) {
	session, err := h.games.RemoveHomePlayer(c.Request.Context(), c.Param("id"), c.Param("name"))
	if err != nil {
		sendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, session)
}

type difficultyRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *SessionHandler) SetDifficulty(c *gin.Context) {
	var req difficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "You didn't select a difficulty.", err.Error())
		return
	}

	session, err := h.games.SetDifficulty(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, session)
}

type playRequest struct {
	MaxAttempts int `json:"max_attempts" binding:"min=0,max=100"`
}

type playResponse struct {
	Result  *game.PlayResult  `json:"result"`
	Session *services.Session `json:"session"`
}

// Play runs a game for the session, replaying the cached away team if one exists
func (h *SessionHandler) Play(c *gin.Context) {
	var req playRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, "Invalid request body", err.Error())
			return
		}
	}

	result, session, err := h.games.Play(c.Request.Context(), c.Param("id"), req.MaxAttempts)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	sendPlayResult(c, result, playResponse{Result: result, Session: session})
}

// NewTeam discards the cached away team
func (h *SessionHandler) NewTeam(c *gin.Context) {
	session, err := h.games.NewTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, session)
}
