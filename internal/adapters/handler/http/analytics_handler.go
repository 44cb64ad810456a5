package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-analytics/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/services"
)

// AnalysisDefaults fill in period_days and weeks when a request omits them.
type AnalysisDefaults struct {
	PeriodDays int
	TrendWeeks int
}

type AnalyticsHandler struct {
	svc      *services.AnalyticsService
	defaults AnalysisDefaults
}

func NewAnalyticsHandler(svc *services.AnalyticsService, defaults AnalysisDefaults) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:      svc,
		defaults: defaults,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	habit := router.Group("/analytics/habits/:id")
	{
		habit.GET("/snapshot", h.Snapshot)
		habit.GET("/streaks", h.Streaks)
		habit.GET("/trend", h.Trend)
		habit.GET("/persistence", h.Persistence)
		habit.GET("/difficulty", h.Difficulty)
		habit.GET("/continuation", h.Continuation)
	}
}

// intQuery reads an integer query parameter, falling back to def when absent.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: name + " must be an integer"})
		return 0, false
	}
	return v, true
}

// respond writes result, or the status mapped from err.
func respond[T any](c *gin.Context, result T, err error) {
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Snapshot godoc
// @Summary Completion snapshot over a trailing window
// @Tags analytics
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Habit ID"
// @Param period_days query int false "Window length in days"
// @Success 200 {object} domain.AnalyticsSnapshot
// @Failure 404 {object} errorResponse
// @Router /api/v1/analytics/habits/{id}/snapshot [get]
func (h *AnalyticsHandler) Snapshot(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}
	period, ok := intQuery(c, "period_days", h.defaults.PeriodDays)
	if !ok {
		return
	}

	snap, err := h.svc.Snapshot(c.Request.Context(), c.Param("id"), userID, period)
	respond(c, snap, err)
}

// Streaks godoc
// @Summary Current and longest streak
// @Tags analytics
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Habit ID"
// @Success 200 {object} domain.StreakSummary
// @Router /api/v1/analytics/habits/{id}/streaks [get]
func (h *AnalyticsHandler) Streaks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	summary, err := h.svc.Streaks(c.Request.Context(), c.Param("id"), userID)
	respond(c, summary, err)
}

// Trend godoc
// @Summary Weekly completion rates with trend and consistency
// @Tags analytics
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Habit ID"
// @Param weeks query int false "Weeks to look back, 1 to 104"
// @Success 200 {object} domain.WeeklyTrend
// @Router /api/v1/analytics/habits/{id}/trend [get]
func (h *AnalyticsHandler) Trend(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}
	weeks, ok := intQuery(c, "weeks", h.defaults.TrendWeeks)
	if !ok {
		return
	}

	trend, err := h.svc.WeeklyTrend(c.Request.Context(), c.Param("id"), userID, weeks)
	respond(c, trend, err)
}

// Persistence godoc
// @Summary Likelihood of keeping the habit up
// @Tags analytics
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Habit ID"
// @Param weeks query int false "Weeks analyzed, 1 to 104"
// @Success 200 {object} domain.PersistencePrediction
// @Router /api/v1/analytics/habits/{id}/persistence [get]
func (h *AnalyticsHandler) Persistence(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}
	weeks, ok := intQuery(c, "weeks", h.defaults.TrendWeeks)
	if !ok {
		return
	}

	pred, err := h.svc.Persistence(c.Request.Context(), c.Param("id"), userID, weeks)
	respond(c, pred, err)
}

// Difficulty godoc
// @Summary Difficulty estimate from early adherence
// @Tags analytics
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Habit ID"
// @Success 200 {object} domain.DifficultyPrediction
// @Router /api/v1/analytics/habits/{id}/difficulty [get]
func (h *AnalyticsHandler) Difficulty(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	pred, err := h.svc.Difficulty(c.Request.Context(), c.Param("id"), userID)
	respond(c, pred, err)
}

// Continuation godoc
// @Summary Expected length of the running streak
// @Tags analytics
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Habit ID"
// @Success 200 {object} domain.ContinuationPrediction
// @Router /api/v1/analytics/habits/{id}/continuation [get]
func (h *AnalyticsHandler) Continuation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	pred, err := h.svc.StreakContinuation(c.Request.Context(), c.Param("id"), userID)
	respond(c, pred, err)
}
