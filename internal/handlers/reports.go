package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bloomhq/bloom/backend/internal/apierror"
	"github.com/bloomhq/bloom/backend/internal/logger"
	"github.com/bloomhq/bloom/backend/internal/service"
)

// ReportsHandler handles report compilation HTTP requests
type ReportsHandler struct {
	intelligenceService service.IntelligenceService
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(intelligenceService service.IntelligenceService) *ReportsHandler {
	return &ReportsHandler{
		intelligenceService: intelligenceService,
	}
}

// GetReport handles GET /api/v1/reports?start_date=&end_date=
// Dates are YYYY-MM-DD and both bounds are inclusive. A missing end_date
// defaults to today; a missing start_date defaults to 30 days before the
// end date.
func (h *ReportsHandler) GetReport(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	end := time.Now()
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			apierror.WriteProblem(c, apierror.NewBadRequestError(requestID,
				"end_date must be formatted as YYYY-MM-DD", "Invalid end_date value"))
			return
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -30)
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			apierror.WriteProblem(c, apierror.NewBadRequestError(requestID,
				"start_date must be formatted as YYYY-MM-DD", "Invalid start_date value"))
			return
		}
		start = parsed
	}

	if end.Before(start) {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID,
			"end_date precedes start_date", "The report range is reversed"))
		return
	}

	report, err := h.intelligenceService.CompileReport(c.Request.Context(), start, end)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to compile report",
			logger.Err(err),
			logger.Time("start_date", start),
			logger.Time("end_date", end),
		)
		apierror.WriteProblem(c, apierror.NewAnalyticsUnavailableError(requestID))
		return
	}

	c.JSON(http.StatusOK, report)
}
