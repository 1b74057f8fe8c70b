package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"note-keeper/internal/auth"
	"note-keeper/internal/repository"
)

const (
	sessionContextKey = "session"
	requestIDHeader   = "X-Request-ID"
)

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  requestID,
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request")
			return
		}
		entry.Info("request")
	}
}

// loadSession decodes the session cookie, if any, onto the request context.
// A cookie that fails verification, or names a user that no longer exists,
// is treated as absent.
func (h *Handler) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(h.cookie.Name)
		if err != nil || token == "" {
			c.Next()
			return
		}
		s, err := h.sessions.Decode(token)
		if err != nil {
			c.Next()
			return
		}

		if _, err := h.users.GetByID(c.Request.Context(), s.UserID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				h.fail(c, err)
				return
			}
			c.Next()
			return
		}
		c.Set(sessionContextKey, s)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) (auth.Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return auth.Session{}, false
	}
	s, ok := v.(auth.Session)
	return s, ok
}

func (h *Handler) startSession(c *gin.Context, s auth.Session) error {
	token, err := h.sessions.Encode(s)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, 0, "/", "", h.cookie.Secure, true)
	c.Set(sessionContextKey, s)
	return nil
}
