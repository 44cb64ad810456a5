package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

const dateLayout = "2006-01-02"

var errMissingUserContext = errors.New("user context missing")

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func isBadRequest(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidCadence,
		domain.ErrNegativePeriod,
		domain.ErrNegativeCompletions,
		domain.ErrInvalidWindow,
		domain.ErrInvalidRankMetric,
		domain.ErrInvalidRange,
		domain.ErrInvalidEntry,
		domain.ErrHabitTitleEmpty,
		domain.ErrHabitTitleTooLong,
		domain.ErrHabitDescTooLong,
		domain.ErrHabitInvalidUserID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func handleError(c *gin.Context, err error) {
	switch {
	case isBadRequest(err):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, errorResponse{Error: "unauthorized access"})

	case errors.Is(err, domain.ErrEntryNotFound) || errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "resource not found"})

	case errors.Is(err, domain.ErrHabitConflict):
		c.JSON(http.StatusConflict, errorResponse{
			Error:   "version conflict",
			Message: "habit has been modified elsewhere, reload it and retry",
		})

	case errors.Is(err, domain.ErrEntryConflict) || errors.Is(err, domain.ErrHabitArchived):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// parseDate accepts a bare calendar date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
