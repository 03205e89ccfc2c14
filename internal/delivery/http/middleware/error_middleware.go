package middleware

import (
	"errors"
	"net/http"

	"employee-onboarding-backend/internal/delivery/http/response"
	"employee-onboarding-backend/pkg/apperror"
	"employee-onboarding-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler pushed with c.Error
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		reqID := c.GetString("RequestID")

		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		// Internal details stay in the logs, the client gets a generic message
		logger.Log.Error("Internal server error",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", reqID,
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
