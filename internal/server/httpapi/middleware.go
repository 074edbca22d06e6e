package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/contacthub/internal/logging"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
)

const (
	requestIDHeader = "X-Request-ID"
	userContextKey  = "httpapi.user"
)

// RequestID propagates the caller's X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set(requestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one structured line per request after it completes.
func AccessLog(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"request_id", c.GetString(requestIDHeader),
		)
	}
}

// BearerAuth resolves the Authorization header to a user and stores it in the
// request context. Requests without a valid access token are rejected.
func BearerAuth(users UserAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			detail(c, http.StatusUnauthorized, "Could not validate credentials")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		user, err := users.CurrentUser(c.Request.Context(), token)
		if err != nil {
			detail(c, http.StatusUnauthorized, "Could not validate credentials")
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRole gates a route on the given check (moderator or admin).
func RequireRole(check func(*models.User) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			detail(c, http.StatusUnauthorized, "Could not validate credentials")
			c.Abort()
			return
		}
		if err := check(user); err != nil {
			detail(c, http.StatusForbidden, "Not enough permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUser returns the user BearerAuth stored, or nil on unauthenticated
// routes.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
