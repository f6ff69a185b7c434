package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/hoops-sim/internal/models"
	"github.com/stitts-dev/hoops-sim/pkg/utils"
)

type DifficultyHandler struct {
	difficulties *models.DifficultySet
	defaultName  string
}

func NewDifficultyHandler(difficulties *models.DifficultySet, defaultName string) *DifficultyHandler {
	return &DifficultyHandler{difficulties: difficulties, defaultName: defaultName}
}

// ListDifficulties returns the presets in ascending order of difficulty
func (h *DifficultyHandler) ListDifficulties(c *gin.Context) {
	utils.SendSuccess(c, gin.H{
		"difficulties": h.difficulties.All(),
		"default":      h.defaultName,
	})
}
