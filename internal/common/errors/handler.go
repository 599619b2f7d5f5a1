// internal/common/errors/handler.go
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Logger is the subset of logger.Logger the responder needs.
type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Responder writes errors to gin responses with consistent bodies.
type Responder struct {
	logger Logger
}

func NewResponder(logger Logger) *Responder {
	return &Responder{logger: logger}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	OK      bool                   `json:"ok"`
	Error   ErrorCode              `json:"error"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// Respond normalizes err, logs it and aborts the request with the mapped status.
func (r *Responder) Respond(c *gin.Context, err error) {
	stdErr := AsStandard(err)
	status := HTTPStatus(stdErr.Code)

	r.log(c, status, stdErr)

	body := ErrorBody{
		OK:      false,
		Error:   stdErr.Code,
		Message: stdErr.Message,
		Meta:    stdErr.Metadata,
	}
	// Internal details stay in the logs.
	if status < http.StatusInternalServerError {
		body.Details = stdErr.Details
	}
	c.AbortWithStatusJSON(status, body)
}

func (r *Responder) log(c *gin.Context, status int, stdErr *StandardError) {
	if r.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"method":        c.Request.Method,
		"path":          c.FullPath(),
	}
	if status >= http.StatusInternalServerError {
		r.logger.Error("Request failed", fields)
		return
	}
	r.logger.Warn("Request rejected", fields)
}
