package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes err with the status statusFor picks. Server errors are
// logged at error level, client errors at debug.
func handleError(c *gin.Context, log logger.Logger, message string, err error) {
	respond(c, log, statusFor(err), message, err)
}

func respond(c *gin.Context, log logger.Logger, status int, message string, err error) {
	reqLog := logger.FromContext(c.Request.Context(), log)
	fields := []logger.Field{
		logger.String("path", c.Request.URL.Path),
		logger.Int("status", status),
		logger.Error(err),
	}
	if status >= http.StatusInternalServerError {
		reqLog.Error(message, fields...)
	} else {
		reqLog.Debug(message, fields...)
	}

	response := ErrorResponse{Message: message}
	if err != nil {
		response.Error = err.Error()
	}
	c.AbortWithStatusJSON(status, response)
}

func badRequest(c *gin.Context, log logger.Logger, message string, err error) {
	respond(c, log, http.StatusBadRequest, message, err)
}

func notFound(c *gin.Context, log logger.Logger, message string) {
	respond(c, log, http.StatusNotFound, message, models.ErrNotFound)
}
