package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/sensei/internal/identity"
	"github.com/abhisek/sensei/internal/logger"
	"github.com/abhisek/sensei/internal/session"
)

const userIDKey = "user_id"

// requireAuth verifies the bearer token and attaches the learner id.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := identity.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			c.Abort()
			return
		}
		userID, err := s.deps.Issuer.Verify(token)
		if err != nil {
			s.log.Debug("token rejected", "error", err)
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// machine returns the caller's session machine.
func (s *Server) machine(c *gin.Context) (*session.Machine, bool) {
	m, err := s.deps.Sessions.Get(userID(c))
	if err != nil {
		s.log.Error("session unavailable", "user_id", userID(c), "error", err)
		respondError(c, http.StatusInternalServerError, "internal", "could not load progress")
		return nil, false
	}
	return m, true
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id := userID(c); id != "" {
			fields = append(fields, "user_id", id)
		}

		switch {
		case status >= 500:
			log.Error("http request", fields...)
		case status >= 400:
			log.Warn("http request", fields...)
		default:
			log.Debug("http request", fields...)
		}
	}
}
