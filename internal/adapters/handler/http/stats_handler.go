package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-analytics/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/services"
)

type StatsHandler struct {
	svc        *services.StatsService
	periodDays int
}

func NewStatsHandler(svc *services.StatsService, periodDays int) *StatsHandler {
	return &StatsHandler{svc: svc, periodDays: periodDays}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	stats := r.Group("/stats")
	{
		stats.GET("/overview", h.Overview)
		stats.GET("/rank", h.Rank)
	}
}

// Overview godoc
// @Summary Cross-habit summary, ranking, insights and recommendations
// @Tags stats
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param period_days query int false "Window length in days"
// @Success 200 {object} domain.StatsOverview
// @Router /api/v1/stats/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}
	period, ok := intQuery(c, "period_days", h.periodDays)
	if !ok {
		return
	}

	overview, err := h.svc.Overview(c.Request.Context(), userID, period)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// Rank godoc
// @Summary Rank active habits by one metric
// @Tags stats
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param metric query string false "completion_rate, current_streak, longest_streak or total_completions"
// @Param order query string false "desc (default) or asc"
// @Param period_days query int false "Window length in days"
// @Success 200 {array} domain.AnalyticsSnapshot
// @Failure 400 {object} errorResponse
// @Router /api/v1/stats/rank [get]
func (h *StatsHandler) Rank(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	metric := domain.RankByCompletionRate
	if raw := c.Query("metric"); raw != "" {
		parsed, err := domain.ParseRankMetric(raw)
		if err != nil {
			handleError(c, err)
			return
		}
		metric = parsed
	}

	descending := true
	switch strings.ToLower(c.DefaultQuery("order", "desc")) {
	case "desc":
	case "asc":
		descending = false
	default:
		c.JSON(http.StatusBadRequest, errorResponse{Error: "order must be asc or desc"})
		return
	}

	period, ok := intQuery(c, "period_days", h.periodDays)
	if !ok {
		return
	}

	ranked, err := h.svc.Rank(c.Request.Context(), userID, metric, descending, period)
	if err != nil {
		handleError(c, err)
		return
	}

	if ranked == nil {
		ranked = []domain.AnalyticsSnapshot{}
	}
	c.JSON(http.StatusOK, ranked)
}
