package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	UserIDHeader     = "X-User-ID"
	ContextUserIDKey = "userID"
	maxUserIDLen     = 128
)

// UserContext trusts the identity forwarded by the gateway in X-User-ID and
// rejects requests that carry none.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header required"})
			return
		}
		if len(userID) > maxUserIDLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "X-User-ID header too long"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := id.(string)
	return idStr, ok
}
