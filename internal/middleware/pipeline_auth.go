package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "finbridge/internal/errors"
	"finbridge/internal/logger"
)

// PipelineAuthMiddleware guards the batch endpoints called by the scheduled
// recalculation job. The caller presents the shared key in X-API-Key; an
// empty configured key disables the endpoints entirely.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	expected := []byte(apiKey)
	return func(c *gin.Context) {
		if len(expected) == 0 {
			abortWithError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader("X-API-Key")), expected) != 1 {
			logger.Get().Warnw("rejected pipeline request",
				"path", c.FullPath(),
				"client_ip", c.ClientIP(),
			)
			abortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
