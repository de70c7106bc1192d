package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/uniportal/internal/pkg/requestid"
)

// RequestID reuses the caller's X-Request-ID or mints one, echoes it on the
// response and stores it on the request context so outbound calls carry it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if id == "" {
			id = requestid.New()
		}
		c.Writer.Header().Set(requestid.Header, id)
		c.Request = c.Request.WithContext(requestid.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RequestLogger logs each request on exit with status and duration
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("request_id", requestid.FromContext(c.Request.Context())).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Int64("ms", time.Since(start).Milliseconds()).
			Msg("Request handled")
	}
}
