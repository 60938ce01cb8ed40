package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentapi/internal/app/models/dto"
	"github.com/yigit/studentapi/internal/pkg/apperrors"
	"github.com/yigit/studentapi/internal/pkg/dberrors"
	"github.com/yigit/studentapi/internal/pkg/logger"
)

// Fallback describes the response for errors outside the taxonomy.
type Fallback struct {
	Status  int
	Code    dto.ErrorCode
	Message string
	// ExposeCause answers with PostgreSQL's own message when there is one.
	ExposeCause bool
}

// InternalFallback answers 500 with a fixed message.
func InternalFallback(message string) Fallback {
	return Fallback{Status: http.StatusInternalServerError, Code: dto.ErrorCodeDatabaseError, Message: message}
}

// StorageMessageFallback answers 400 with the storage engine's message.
func StorageMessageFallback(message string) Fallback {
	return Fallback{Status: http.StatusBadRequest, Code: dto.ErrorCodeDatabaseError, Message: message, ExposeCause: true}
}

// --- Central Error Handling ---

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error, fallback Fallback) {
	message, hasMessage := apperrors.Message(err)

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		if !hasMessage {
			message = "Validation failed"
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, message))
		return
	case errors.Is(err, apperrors.ErrResourceNotFound):
		if !hasMessage {
			message = "Resource not found"
		}
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, message))
		return
	case errors.Is(err, apperrors.ErrStudentHasRelations):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeResourceInUse, message))
		return
	case errors.Is(err, apperrors.ErrConflict):
		if !hasMessage {
			message = "Resource already exists"
		}
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeResourceAlreadyExists, message))
		return
	}

	logger.Error().
		Err(err).
		Str("requestID", GetRequestID(c)).
		Str("route", c.FullPath()).
		Str("method", c.Request.Method).
		Msg("Unhandled error while serving request")

	status := fallback.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	code := fallback.Code
	if code == "" {
		code = dto.ErrorCodeInternalServer
	}
	message = fallback.Message
	if message == "" {
		message = "Internal server error"
	}
	if fallback.ExposeCause {
		if cause, ok := dberrors.ServerMessage(err); ok {
			message = cause
		}
	}

	c.JSON(status, dto.NewErrorResponse(code, message))
}
