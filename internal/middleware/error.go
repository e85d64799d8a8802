package middleware

import (
	"github.com/gin-gonic/gin"

	"finbridge/internal/logger"
	"finbridge/internal/result"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into the failure envelope. AppErrors keep their code and message;
// anything else is logged and reported as an internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		err := c.Errors.Last().Err
		status, body, appErr := result.FromError(err)
		if appErr.Internal != nil {
			logger.Get().Errorw("request failed",
				"code", appErr.Code,
				"error", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
		}
		c.JSON(status, body)
	}
}

// abortWithError renders err as a failure envelope and stops the chain.
func abortWithError(c *gin.Context, err error) {
	status, body, _ := result.FromError(err)
	c.AbortWithStatusJSON(status, body)
}
