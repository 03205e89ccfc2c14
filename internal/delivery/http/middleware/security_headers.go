package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware sets the baseline browser hardening headers.
// storageOrigin is added to the image and connect sources so signed
// document links keep working in the frontend.
func SecurityHeadersMiddleware(storageOrigin string) gin.HandlerFunc {
	sources := "'self'"
	if storageOrigin = strings.TrimRight(storageOrigin, "/"); storageOrigin != "" {
		sources += " " + storageOrigin
	}
	csp := strings.Join([]string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src " + sources + " data:",
		"connect-src " + sources,
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}, "; ")

	return func(c *gin.Context) {
		c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

		// Swagger UI needs inline scripts, everything else gets the strict policy
		if !strings.HasPrefix(c.Request.URL.Path, "/v1/swagger/") {
			c.Header("Content-Security-Policy", csp)
		}

		// Authenticated responses carry personal data
		if c.GetHeader("Authorization") != "" {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
			c.Header("Pragma", "no-cache")
		}

		c.Next()
	}
}
