package handlers

import (
	"net/http"

	"connect4/internal/services"
	"connect4/internal/utils"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GET /api/analytics/summary
func (ah *AnalyticsHandler) GetStatistics(c *gin.Context) {
	stats, err := ah.analyticsService.GetGameStatistics(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, stats)
}

// GET /api/analytics/columns
func (ah *AnalyticsHandler) GetPopularColumns(c *gin.Context) {
	columns, err := ah.analyticsService.GetPopularColumns(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"columns": columns,
	})
}
