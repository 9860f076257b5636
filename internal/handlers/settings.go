package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bloomhq/bloom/backend/internal/apierror"
	"github.com/bloomhq/bloom/backend/internal/logger"
	"github.com/bloomhq/bloom/backend/internal/models"
	"github.com/bloomhq/bloom/backend/internal/repository"
)

// SettingsHandler handles explicit time-goal writes
type SettingsHandler struct {
	settings repository.SettingsRepository
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// UpdateTimeGoal handles PUT /api/v1/settings/time-goals/:programId
// It overrides whatever goal the recommendation engine has derived.
func (h *SettingsHandler) UpdateTimeGoal(c *gin.Context) {
	requestID := apierror.GetRequestID(c)
	programID := c.Param("programId")

	var req models.UpdateTimeGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "target_duration_sec", Message: "must be a positive integer"},
		}))
		return
	}

	patch := &models.SettingsPatch{
		TimeGoals: map[string]models.TimeGoal{
			programID: {
				ProgramID:         programID,
				TargetDurationSec: req.TargetDurationSec,
				UpdatedAt:         time.Now(),
			},
		},
	}

	settings, err := h.settings.Update(c.Request.Context(), patch)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to update time goal",
			logger.Err(err),
			logger.String("program_id", programID),
		)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, settings)
}
