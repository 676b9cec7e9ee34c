package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	u "github.com/kapildev5262/Token-World/utils"
)

// CORSMiddleware is a middleware that adds CORS headers to response.
// Origins outside allowedOrigins get "null" back and are blocked by the browser.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")

		allowedOrigin := "*"
		if origin != "" {
			allowedOrigin = "null"
			if u.OriginAllowed(origin, allowedOrigins) {
				allowedOrigin = origin
			}
		}

		ctx.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		ctx.Writer.Header().Set("Access-Control-Max-Age", "86400")
		ctx.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		ctx.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Request-ID")
		ctx.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		ctx.Writer.Header().Set("Cache-Control", "no-cache")

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusOK)
			return
		}
		ctx.Next()
	}
}
