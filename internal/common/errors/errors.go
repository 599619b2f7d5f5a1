// Package errors provides standardized error handling for the quiz HTTP API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"

	ErrCodeSubmissionInsertFailed ErrorCode = "SUBMISSION_INSERT_FAILED"
	ErrCodeSubmissionQueryFailed  ErrorCode = "SUBMISSION_QUERY_FAILED"
	ErrCodeAnswerStoreFailed      ErrorCode = "ANSWER_STORE_FAILED"

	ErrCodeMottoGenerationFailed ErrorCode = "MOTTO_GENERATION_FAILED"
	ErrCodeMottoTimeout          ErrorCode = "MOTTO_TIMEOUT"
	ErrCodeMottoRateLimited      ErrorCode = "MOTTO_RATE_LIMITED"

	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the receiver.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable payload validation error.
func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Request validation failed", details, false, nil)
}

// NewInvalidRequestBodyError is returned when a body cannot be decoded.
func NewInvalidRequestBodyError(err error) *StandardError {
	return newError(ErrCodeInvalidRequestBody, "Request body is not valid JSON", detailsOf(err), false, err)
}

func NewNotFoundError(resource, id string) *StandardError {
	return newError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), id, false, nil)
}

// NewSubmissionInsertFailedError wraps a store write failure.
func NewSubmissionInsertFailedError(err error) *StandardError {
	return newError(ErrCodeSubmissionInsertFailed, "Failed to save quiz submission", detailsOf(err), true, err)
}

// NewSubmissionQueryFailedError wraps a store read failure.
func NewSubmissionQueryFailedError(op string, err error) *StandardError {
	return newError(ErrCodeSubmissionQueryFailed, "Failed to query quiz submissions", detailsOf(err), true, err).
		WithMetadata("operation", op)
}

func NewAnswerStoreFailedError(op string, err error) *StandardError {
	return newError(ErrCodeAnswerStoreFailed, "Answer store unavailable", detailsOf(err), true, err).
		WithMetadata("operation", op)
}

func NewMottoGenerationFailedError(err error) *StandardError {
	return newError(ErrCodeMottoGenerationFailed, "Motto generation failed", detailsOf(err), true, err)
}

func NewMottoTimeoutError() *StandardError {
	return newError(ErrCodeMottoTimeout, "Motto generation timed out", "", true, nil)
}

func NewMottoRateLimitedError(details string) *StandardError {
	return newError(ErrCodeMottoRateLimited, "Motto provider rate limited", details, false, nil)
}

// NewUnauthorizedError is returned for a missing or wrong bearer token or cookie.
func NewUnauthorizedError(details string) *StandardError {
	return newError(ErrCodeUnauthorized, "Unauthorized", details, false, nil)
}

func NewInvalidCredentialsError() *StandardError {
	return newError(ErrCodeInvalidCredentials, "Invalid credentials", "", false, nil)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", detailsOf(err), false, err)
}

// ==========================
// 3. Mapping & Utilities
// ==========================

var httpStatusMapping = map[ErrorCode]int{
	ErrCodeValidationFailed:       http.StatusBadRequest,
	ErrCodeInvalidRequestBody:     http.StatusBadRequest,
	ErrCodeNotFound:               http.StatusNotFound,
	ErrCodeSubmissionInsertFailed: http.StatusInternalServerError,
	ErrCodeSubmissionQueryFailed:  http.StatusInternalServerError,
	ErrCodeAnswerStoreFailed:      http.StatusServiceUnavailable,
	ErrCodeMottoGenerationFailed:  http.StatusBadGateway,
	ErrCodeMottoTimeout:           http.StatusGatewayTimeout,
	ErrCodeMottoRateLimited:       http.StatusTooManyRequests,
	ErrCodeUnauthorized:           http.StatusUnauthorized,
	ErrCodeInvalidCredentials:     http.StatusUnauthorized,
	ErrCodeInternal:               http.StatusInternalServerError,
}

// HTTPStatus returns the response status for an error code.
func HTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AsStandard extracts a StandardError from err's chain, wrapping anything
// else as an internal error.
func AsStandard(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsRetryable reports whether err is a retryable StandardError.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "SUBMISSION"), strings.HasPrefix(codeStr, "ANSWER"):
		return "STORAGE"
	case strings.HasPrefix(codeStr, "MOTTO"):
		return "AI"
	case code == ErrCodeUnauthorized, code == ErrCodeInvalidCredentials:
		return "AUTH"
	case strings.Contains(codeStr, "INVALID"), strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
