package api

import (
	"crypto/subtle"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/kurihiro0119/github-profile-api/internal/errors"
	"github.com/kurihiro0119/github-profile-api/internal/logging"
)

const (
	requestIDHeader   = "X-Request-ID"
	proxySecretHeader = "X-RapidAPI-Proxy-Secret"
	requestIDKey      = "request_id"
)

// RequestID assigns every request an id, reusing the caller's if present
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Logger returns a middleware that logs requests and puts a request-scoped
// logger into the request context
func Logger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		reqLogger := logger.With("request_id", c.GetString(requestIDKey))
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), reqLogger))

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		reqLogger.Info("request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).Round(time.Microsecond),
			"client_ip", c.ClientIP(),
		)
	}
}

// CORS returns a middleware that handles CORS
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// ProxySecret rejects requests that do not carry the shared proxy secret.
// An empty secret disables the check.
func ProxySecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		got := c.GetHeader(proxySecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			respondError(c, apperrors.NewForbiddenError("Unauthorized"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// Recovery returns a middleware that recovers from panics
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
