package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-analytics/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Cadence     string `json:"cadence" example:"daily"`
}

type updateHabitRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Cadence     string  `json:"cadence"`
	Version     int     `json:"version"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
		habits.POST("/:id/archive", h.Archive)
		habits.POST("/:id/restore", h.Restore)
	}
}

func optionalCadence(raw string) (domain.Cadence, error) {
	if raw == "" {
		return 0, nil
	}
	return domain.ParseCadence(raw)
}

// Create godoc
// @Summary Create a habit
// @Tags habits
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param habit body createHabitRequest true "Habit to track"
// @Success 201 {object} domain.Habit
// @Failure 400 {object} errorResponse
// @Router /api/v1/habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	cadence, err := optionalCadence(req.Cadence)
	if err != nil {
		handleError(c, err)
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Cadence:     cadence,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// List godoc
// @Summary List the caller's habits
// @Tags habits
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param active query bool false "Only active habits"
// @Param cadence query string false "daily or weekly, implies active"
// @Success 200 {array} domain.Habit
// @Router /api/v1/habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	if raw := c.Query("cadence"); raw != "" {
		cadence, err := domain.ParseCadence(raw)
		if err != nil {
			handleError(c, err)
			return
		}
		list, err := h.svc.ListByCadence(c.Request.Context(), userID, cadence)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	activeOnly := false
	if raw := c.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "active must be a boolean"})
			return
		}
		activeOnly = v
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID, activeOnly)
	if err != nil {
		handleError(c, err)
		return
	}

	if list == nil {
		list = []*domain.Habit{}
	}
	c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary Fetch one habit
// @Tags habits
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Habit ID"
// @Success 200 {object} domain.Habit
// @Failure 404 {object} errorResponse
// @Router /api/v1/habits/{id} [get]
func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	habit, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Update godoc
// @Summary Edit a habit
// @Description Omitted fields keep their value. A non-zero version enables the optimistic lock.
// @Tags habits
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Habit ID"
// @Param habit body updateHabitRequest true "Fields to change"
// @Success 200 {object} domain.Habit
// @Failure 409 {object} errorResponse
// @Router /api/v1/habits/{id} [put]
func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	cadence, err := optionalCadence(req.Cadence)
	if err != nil {
		handleError(c, err)
		return
	}

	habit, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:          c.Param("id"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Cadence:     cadence,
		Version:     req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Archive godoc
// @Summary Stop tracking a habit, keeping its history
// @Tags habits
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Habit ID"
// @Success 200 {object} domain.Habit
// @Router /api/v1/habits/{id}/archive [post]
func (h *HabitHandler) Archive(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	habit, err := h.svc.Archive(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Restore godoc
// @Summary Resume tracking an archived habit
// @Tags habits
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Habit ID"
// @Success 200 {object} domain.Habit
// @Router /api/v1/habits/{id}/restore [post]
func (h *HabitHandler) Restore(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		handleError(c, errMissingUserContext)
		return
	}

	habit, err := h.svc.Restore(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Delete godoc
// @Summary Delete a habit
// @Tags habits
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Habit ID"
// @Success 204
// @Failure 404 {object} errorResponse
// @Router /api/v1/habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
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
