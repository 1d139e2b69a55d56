package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "granaia/internal/errors"
	"granaia/internal/logger"
)

// ErrorHandler returns a Gin middleware that converts errors attached to the
// Gin context into the standard response envelope. AppErrors render with
// their status, message and details; anything else is logged and rendered as
// a generic 500. Database and internal error details are only exposed in
// debug deployments.
func ErrorHandler(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			details := appErr.Details
			if appErr.StatusCode >= 500 && appErr.Internal != nil {
				if debug {
					details = appErr.Internal.Error()
				} else {
					details = nil
				}
			}
			c.JSON(appErr.StatusCode, gin.H{
				"success": false,
				"message": appErr.Message,
				"details": details,
			})
			return
		}

		// Unexpected error: log full details, return generic message
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		var details interface{}
		if debug {
			details = err.Error()
		}
		c.JSON(apperrors.ErrInternal.StatusCode, gin.H{
			"success": false,
			"message": apperrors.ErrInternal.Message,
			"details": details,
		})
	}
}
