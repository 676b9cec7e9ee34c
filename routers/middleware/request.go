package middleware

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	u "github.com/kapildev5262/Token-World/utils"
	"github.com/kapildev5262/Token-World/utils/logger"
)

// RequestIDHeader carries the id of a request in both directions
const RequestIDHeader = "X-Request-ID"

// RateLimitMiddleware allows limit requests per second per client IP.
// scope keeps the buckets of separate limiters apart; a limit below one disables limiting.
func RateLimitMiddleware(scope string, limit int) gin.HandlerFunc {
	if limit < 1 {
		return func(c *gin.Context) { c.Next() }
	}

	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: uint(limit),
	})

	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			logger.WithFields(logger.Fields{
				"Scope": scope,
				"IP":    c.ClientIP(),
			}).Debugf("rate limited")

			u.APIResponse(
				c,
				http.StatusTooManyRequests,
				"error",
				"Too many requests, please slow down",
				map[string]interface{}{
					"retry_after": time.Until(info.ResetTime).Seconds(),
					"limit":       info.Limit,
				},
			)
			c.Abort()
		},
		KeyFunc: func(c *gin.Context) string {
			return scope + ":" + c.ClientIP()
		},
	})
}

// RequestIDMiddleware tags every request with an id, reusing the caller's when it is a uuid
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(RequestIDHeader))
		if err != nil {
			id = uuid.New()
		}

		c.Set("request_id", id.String())
		c.Writer.Header().Set(RequestIDHeader, id.String())
		c.Next()
	}
}

// LoggerMiddleware logs one line per request
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logger.Fields{
			"Method":    c.Request.Method,
			"Path":      c.Request.URL.Path,
			"Status":    c.Writer.Status(),
			"Duration":  time.Since(start).String(),
			"RequestID": c.GetString("request_id"),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.WithFields(fields).Errorf("request failed")
			return
		}
		logger.WithFields(fields).Debugf("request")
	}
}
