package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bloomhq/bloom/backend/internal/apierror"
	"github.com/bloomhq/bloom/backend/internal/logger"
	"github.com/bloomhq/bloom/backend/internal/service"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// windowDays parses the window_days query parameter. Zero means "use the
// service default"; negative or malformed values are rejected.
func windowDays(c *gin.Context) (int, bool) {
	raw := c.Query("window_days")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		apierror.WriteProblem(c, apierror.NewBadRequestError(
			apierror.GetRequestID(c),
			"window_days must be a non-negative integer",
			"Invalid window_days value",
		))
		return 0, false
	}
	return days, true
}

// GetProgramStats handles GET /api/v1/analytics/programs/:id/stats
func (h *AnalyticsHandler) GetProgramStats(c *gin.Context) {
	days, ok := windowDays(c)
	if !ok {
		return
	}

	stats, err := h.analyticsService.GetTrialStats(c.Request.Context(), c.Param("id"), days)
	if err != nil {
		h.writeError(c, err, "failed to get trial stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetProgramProgress handles GET /api/v1/analytics/programs/:id/progress
func (h *AnalyticsHandler) GetProgramProgress(c *gin.Context) {
	progress, err := h.analyticsService.GetProgramProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierror.WriteProblem(c, apierror.NewNotFoundError(apierror.GetRequestID(c), "program", c.Param("id")))
			return
		}
		h.writeError(c, err, "failed to get program progress")
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetBehaviorStats handles GET /api/v1/analytics/behaviors/:id/stats
func (h *AnalyticsHandler) GetBehaviorStats(c *gin.Context) {
	days, ok := windowDays(c)
	if !ok {
		return
	}

	stats, err := h.analyticsService.GetBehaviorStats(c.Request.Context(), c.Param("id"), days)
	if err != nil {
		h.writeError(c, err, "failed to get behavior stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetTiming handles GET /api/v1/analytics/timing
// An empty program_id analyzes all trials together.
func (h *AnalyticsHandler) GetTiming(c *gin.Context) {
	days, ok := windowDays(c)
	if !ok {
		return
	}

	analytics, err := h.analyticsService.GetTimingAnalytics(c.Request.Context(), c.Query("program_id"), days)
	if err != nil {
		h.writeError(c, err, "failed to get timing analytics")
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// GetTimingByProgram handles GET /api/v1/analytics/timing/programs
func (h *AnalyticsHandler) GetTimingByProgram(c *gin.Context) {
	days, ok := windowDays(c)
	if !ok {
		return
	}

	timings, err := h.analyticsService.GetTimingByProgram(c.Request.Context(), days)
	if err != nil {
		h.writeError(c, err, "failed to get per-program timing")
		return
	}

	c.JSON(http.StatusOK, gin.H{"programs": timings})
}

func (h *AnalyticsHandler) writeError(c *gin.Context, err error, msg string) {
	logger.Ctx(c.Request.Context()).Error(msg, logger.Err(err))
	apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
}
