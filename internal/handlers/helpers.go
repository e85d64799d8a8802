package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "finbridge/internal/errors"
	"finbridge/internal/logger"
	"finbridge/internal/middleware"
	"finbridge/internal/result"
)

// ErrorResponse documents the failure envelope in the API docs.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Personality profile not found"`
	Code    string `json:"code" example:"PROFILE_NOT_FOUND"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID reads a UUID path parameter.
//
//nolint:unparam // shared by handlers with differently named params
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id.String(), nil
}

// parseOptionalBool parses a "true"/"false" query parameter, nil when absent.
func parseOptionalBool(c *gin.Context, name string) (*bool, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, name+" must be 'true' or 'false'")
	}
	return &b, nil
}

// respond writes data in the success envelope.
func respond[T any](c *gin.Context, status int, data T) {
	c.JSON(status, result.OK(data))
}

// respondWithError writes the failure envelope. Internal causes are logged,
// never returned.
func respondWithError(c *gin.Context, err error) {
	status, body, appErr := result.FromError(err)
	if appErr.Internal != nil {
		logger.Get().Errorw("request failed",
			"code", appErr.Code,
			"internal", appErr.Internal.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}
	c.JSON(status, body)
}
