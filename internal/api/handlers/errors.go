package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/hoops-sim/internal/catalog"
	"github.com/stitts-dev/hoops-sim/internal/game"
	"github.com/stitts-dev/hoops-sim/internal/models"
	"github.com/stitts-dev/hoops-sim/internal/predictor"
	"github.com/stitts-dev/hoops-sim/internal/sampler"
	"github.com/stitts-dev/hoops-sim/internal/services"
	"github.com/stitts-dev/hoops-sim/pkg/utils"
)

// sendServiceError maps service sentinels onto the response envelope.
func sendServiceError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		utils.SendNotFound(c, "Session not found")
	case errors.Is(err, catalog.ErrNotFound):
		utils.SendError(c, http.StatusNotFound, utils.NewAppError(utils.ErrCodeNotFound, "Player not found", err.Error()))
	case errors.Is(err, services.ErrPlayerNotOnTeam):
		utils.SendError(c, http.StatusNotFound, utils.NewAppError(utils.ErrCodeNotFound, "Player is not on your team", err.Error()))
	case errors.Is(err, services.ErrTeamFull):
		utils.SendConflict(c, "Your team already has 5 players")
	case errors.Is(err, models.ErrDuplicatePlayer):
		utils.SendConflict(c, "Player is already on your team")
	case errors.Is(err, catalog.ErrInvalidSearchTerm):
		utils.SendValidationError(c, "Invalid search term. Please use only letters, numbers, and basic punctuation.", "")
	case errors.Is(err, services.ErrUnknownDifficulty):
		utils.SendValidationError(c, "Unknown difficulty", err.Error())
	case errors.Is(err, catalog.ErrUnavailable):
		utils.SendError(c, http.StatusServiceUnavailable, utils.NewAppError(utils.ErrCodeDataUnavailable, game.MsgCatalog))
	default:
		utils.SendInternalError(c, "Something went wrong. Please try again.")
	}
}

// sendPlayResult writes a finished play. Failed plays still carry the partial
// result so the client can show the home roster.
func sendPlayResult(c *gin.Context, result *game.PlayResult, data interface{}) {
	if result.Succeeded() {
		utils.SendSuccess(c, data)
		return
	}

	_ = c.Error(result.Err)
	status := http.StatusUnprocessableEntity
	if result.Unavailable() {
		status = http.StatusServiceUnavailable
	}
	utils.SendErrorWithData(c, status, utils.NewAppError(playErrorCode(result), result.Message), data)
}

func playErrorCode(result *game.PlayResult) string {
	switch {
	case result.FailedStage == game.StateTeamCheck:
		return utils.ErrCodeInvalidTeam
	case errors.Is(result.Err, sampler.ErrPoolExhausted):
		return utils.ErrCodePoolExhausted
	case errors.Is(result.Err, predictor.ErrModelUnavailable):
		return utils.ErrCodeModelUnavailable
	case errors.Is(result.Err, catalog.ErrUnavailable):
		return utils.ErrCodeDataUnavailable
	case result.Message == game.MsgFeatures:
		return utils.ErrCodeInvalidFeatures
	}
	return utils.ErrCodeInternal
}
