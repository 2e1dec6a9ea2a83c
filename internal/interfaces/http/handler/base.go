package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/domain/shared"
	"github.com/rentaldocs/backend/internal/infrastructure/logger"
	"github.com/rentaldocs/backend/internal/infrastructure/render"
	"github.com/rentaldocs/backend/internal/interfaces/http/dto"
	"github.com/rentaldocs/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// BindingError reports a request body that could not be bound. Rule
// violations list the failing fields; anything else is malformed JSON.
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	if details := middleware.ValidationDetails(err); len(details) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			dto.ErrCodeValidation,
			"Request validation failed",
			middleware.GetRequestID(c),
			details,
		))
		return
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
}

// HandleError converts application errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var validationErr *document.ValidationError
	if errors.As(err, &validationErr) {
		details := make([]dto.ValidationDetail, len(validationErr.Errors))
		for i, fe := range validationErr.Errors {
			details[i] = dto.ValidationDetail{Field: fe.Field, Message: fe.Message}
		}
		c.JSON(http.StatusUnprocessableEntity, dto.NewValidationErrorResponse(
			dto.ErrCodeDocumentInvalid,
			"Document is not valid",
			requestID,
			details,
		))
		return
	}

	var renderErr *render.RenderError
	if errors.As(err, &renderErr) {
		code := dto.NormalizeErrorCode(renderErr.Code)
		status := dto.GetHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("render failed", zap.String("code", renderErr.Code), zap.Error(err))
		}
		c.JSON(status, dto.NewErrorResponseWithRequestID(code, renderErr.Message, requestID))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		status := dto.GetHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("request failed", zap.String("code", domainErr.Code), zap.Error(err))
		}
		c.JSON(status, dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	logger.GetGinLogger(c).Error("unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}

// docTypeParam parses the :type path parameter. It writes a 404 and
// returns false for an unknown type.
func (h *BaseHandler) docTypeParam(c *gin.Context) (document.DocType, bool) {
	docType, ok := document.ParseDocType(c.Param("type"))
	if !ok {
		h.NotFound(c, "Unknown document type")
		return "", false
	}
	return docType, true
}

// idParam parses the :id path parameter. It writes a 400 and returns
// false when the id is not a UUID.
func (h *BaseHandler) idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid document ID format")
		return uuid.Nil, false
	}
	return id, true
}

// formatParam parses the :format path parameter
func (h *BaseHandler) formatParam(c *gin.Context) (render.Format, bool) {
	format, ok := render.ParseFormat(c.Param("format"))
	if !ok {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeUnsupportedFormat, "Unsupported export format: "+c.Param("format"))
		return "", false
	}
	return format, true
}
