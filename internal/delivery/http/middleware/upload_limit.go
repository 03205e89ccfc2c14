package middleware

import (
	"net/http"
	"strconv"

	"employee-onboarding-backend/internal/delivery/http/response"
	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/logger"
	"employee-onboarding-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// UploadLimit applies the per-IP minute and per-user day upload quotas.
// It must run after AuthMiddleware so the user id is known.
func UploadLimit(limiter *security.UploadLimiter, secLog *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		allowed, retryAfter, err := limiter.AllowUpload(c.Request.Context(), c.ClientIP(), c.GetString(string(domain.KeyUserID)))
		if err != nil {
			logger.Log.Error("Upload rate limit check failed", "error", err)
		}
		if !allowed {
			secLog.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), c.GetString("RequestID"), c.FullPath())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.Error(c, http.StatusTooManyRequests, "Upload limit reached. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
