package middleware

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/session"
	"github.com/jafarshop/storefront/pkg/errors"
)

// SessionHeader carries the browser's session id
const SessionHeader = "X-Session-ID"

const sessionIDKey = "session_id"

// SessionMiddleware rejects requests without a live session
func SessionMiddleware(sessions *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + SessionHeader + " header"})
			c.Abort()
			return
		}

		if _, err := sessions.Get(c.Request.Context(), id); err != nil {
			var notFound *errors.ErrNotFound
			if stderrors.As(err, &notFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
				c.Abort()
				return
			}
			logger.Error("Failed to load session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			c.Abort()
			return
		}

		c.Set(sessionIDKey, id)
		c.Next()
	}
}

// GetSessionID returns the session id stored by SessionMiddleware
func GetSessionID(c *gin.Context) (string, bool) {
	id, ok := c.Get(sessionIDKey)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok && s != ""
}
