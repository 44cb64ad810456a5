package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-analytics/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/services"
)

type EntryHandler struct {
	svc *services.EntryService
}

func NewEntryHandler(svc *services.EntryService) *EntryHandler {
	return &EntryHandler{
		svc: svc,
	}
}

type createEntryRequest struct {
	HabitID        string `json:"habit_id" binding:"required"`
	CompletionDate string `json:"completion_date" example:"2024-01-15"`
	Notes          string `json:"notes"`
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/entries")
	{
		entries.POST("", h.Create)
		entries.GET("", h.ListByHabit)
		entries.GET("/:id", h.Get)
		entries.DELETE("/:id", h.Delete)
	}
	router.GET("/habits/:id/completion", h.IsCompleted)
}

// Create godoc
// @Summary Record a completion
// @Description completion_date defaults to today. A habit is completed at most once per day.
// @Tags entries
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param entry body createEntryRequest true "Completion"
// @Success 201 {object} domain.HabitEntry
// @Failure 409 {object} errorResponse
// @Router /api/v1/entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	var date time.Time
	if req.CompletionDate != "" {
		parsed, err := parseDate(req.CompletionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid completion_date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	entry, err := h.svc.Complete(c.Request.Context(), services.CompleteHabitInput{
		HabitID:        req.HabitID,
		UserID:         userID,
		CompletionDate: date,
		Notes:          req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Get godoc
// @Summary Fetch one completion
// @Tags entries
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Entry ID"
// @Success 200 {object} domain.HabitEntry
// @Failure 403 {object} errorResponse
// @Router /api/v1/entries/{id} [get]
func (h *EntryHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	entry, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete godoc
// @Summary Undo a completion
// @Tags entries
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Entry ID"
// @Success 204
// @Router /api/v1/entries/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListByHabit godoc
// @Summary List completions of a habit
// @Description Without from and to the whole history is returned. A missing to means today.
// @Tags entries
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param habit_id query string true "Habit ID"
// @Param from query string false "First day, YYYY-MM-DD"
// @Param to query string false "Last day, YYYY-MM-DD"
// @Success 200 {array} domain.HabitEntry
// @Router /api/v1/entries [get]
func (h *EntryHandler) ListByHabit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	habitID := c.Query("habit_id")
	if habitID == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "habit_id is required"})
		return
	}

	var from, to time.Time
	for _, q := range []struct {
		name string
		dst  *time.Time
	}{{"from", &from}, {"to", &to}} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid " + q.name + ", expected YYYY-MM-DD"})
			return
		}
		*q.dst = parsed
	}

	list, err := h.svc.ListByHabitID(c.Request.Context(), habitID, userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	if list == nil {
		list = []*domain.HabitEntry{}
	}
	c.JSON(http.StatusOK, list)
}

// IsCompleted godoc
// @Summary Tell whether a habit was completed on a day
// @Tags entries
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Habit ID"
// @Param date query string false "Day to check, YYYY-MM-DD, defaults to today"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/habits/{id}/completion [get]
func (h *EntryHandler) IsCompleted(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	var date time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	done, err := h.svc.IsCompletedOn(c.Request.Context(), c.Param("id"), userID, date)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := gin.H{
		"habit_id":  c.Param("id"),
		"completed": done,
	}
	if !date.IsZero() {
		resp["date"] = domain.CalendarDay(date).Format(dateLayout)
	}
	c.JSON(http.StatusOK, resp)
}
