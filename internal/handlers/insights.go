// Package handlers wires the engine's services to the gin router.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bloomhq/bloom/backend/internal/apierror"
	"github.com/bloomhq/bloom/backend/internal/logger"
	"github.com/bloomhq/bloom/backend/internal/service"
)

// InsightsHandler handles insight and recommendation HTTP requests
type InsightsHandler struct {
	intelligenceService service.IntelligenceService
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(intelligenceService service.IntelligenceService) *InsightsHandler {
	return &InsightsHandler{
		intelligenceService: intelligenceService,
	}
}

// GetInsights runs the full analyzer set and returns the ordered result.
// A failed run is a 503 problem, never an empty list.
// GET /api/v1/insights
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	log := logger.Ctx(c.Request.Context())

	insights, err := h.intelligenceService.ComputeInsights(c.Request.Context())
	if err != nil {
		log.Error("failed to compute insights", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewAnalyticsUnavailableError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, insights)
}

// GetRecommendations returns the prioritized next-session list
// GET /api/v1/recommendations
func (h *InsightsHandler) GetRecommendations(c *gin.Context) {
	log := logger.Ctx(c.Request.Context())

	recommendations, err := h.intelligenceService.ComputeRecommendations(c.Request.Context())
	if err != nil {
		log.Error("failed to compute recommendations", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewAnalyticsUnavailableError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"total":           len(recommendations),
	})
}
