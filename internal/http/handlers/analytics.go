package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/patentdesk/backend/internal/http/response"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
	log       *logger.Logger
}

func NewAnalyticsHandler(analytics services.AnalyticsService, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, log: log.With("handler", "AnalyticsHandler")}
}

// GrowthTrend handles GET /api/analytics/growth-trend?days=30.
func (h *AnalyticsHandler) GrowthTrend(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 365 {
			response.RespondError(c, http.StatusBadRequest, "INVALID_DAYS", pkgerrors.ErrInvalidArgument)
			return
		}
		days = n
	}
	points, err := h.analytics.GrowthTrend(c.Request.Context(), days)
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, points)
}

// Sync handles POST /api/analytics/sync.
func (h *AnalyticsHandler) Sync(c *gin.Context) {
	row, err := h.analytics.SyncCurrentMetrics(c.Request.Context())
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, row)
}

// UpdateToday handles PUT /api/analytics/today, used by the dashboard to
// push the externally-owned user count alongside local totals.
func (h *AnalyticsHandler) UpdateToday(c *gin.Context) {
	var req struct {
		TotalUsers   int `json:"totalUsers"`
		TotalPatents int `json:"totalPatents"`
		TotalFilings int `json:"totalFilings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	row, err := h.analytics.UpdateTodayMetrics(c.Request.Context(), req.TotalUsers, req.TotalPatents, req.TotalFilings)
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, row)
}
