// Package result defines the response envelope shared by every API endpoint.
package result

import (
	"errors"

	apperrors "finbridge/internal/errors"
)

// Result is the boundary shape: {success, data} on success and
// {success, error, code} on failure.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Failure is the envelope returned for every error response.
type Failure = Result[any]

// OK wraps data in a successful envelope.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail builds a failure envelope.
func Fail(code, message string) Failure {
	return Failure{Success: false, Error: message, Code: code}
}

// FromError maps err onto an HTTP status and failure envelope. Errors that
// are not AppErrors are reported as internal errors; their detail never
// reaches the client. The returned AppError is the one that was rendered.
func FromError(err error) (int, Failure, *apperrors.AppError) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return appErr.StatusCode, Fail(appErr.Code, appErr.Message), appErr
}
