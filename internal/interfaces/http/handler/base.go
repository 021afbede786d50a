package handler

import (
	"errors"
	"net/http"

	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/ecomops/backend/internal/interfaces/http/dto"
	"github.com/ecomops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// getOrganizationID extracts the organization ID from the X-Organization-ID header
func getOrganizationID(c *gin.Context) (uuid.UUID, error) {
	orgIDStr := c.GetHeader("X-Organization-ID")
	if orgIDStr == "" {
		return uuid.Nil, errors.New("organization ID not found in request")
	}
	return uuid.Parse(orgIDStr)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts domain and stock errors to HTTP responses.
// Stock validation failures surface their typed code so clients can
// distinguish a shortage (422) from a retryable conflict (409).
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var insufficientErr *inventory.InsufficientStockError
	if errors.As(err, &insufficientErr) {
		h.Error(c, dto.GetHTTPStatus(insufficientErr.Code()), insufficientErr.Code(), insufficientErr.Error())
		return
	}

	var negativeErr *inventory.NegativeInventoryError
	if errors.As(err, &negativeErr) {
		h.Error(c, dto.GetHTTPStatus(negativeErr.Code()), negativeErr.Code(), negativeErr.Error())
		return
	}

	var belowReservedErr *inventory.BelowReservedQuantityError
	if errors.As(err, &belowReservedErr) {
		h.Error(c, dto.GetHTTPStatus(belowReservedErr.Code()), belowReservedErr.Code(), belowReservedErr.Error())
		return
	}

	var negativeAvailErr *inventory.NegativeAvailableError
	if errors.As(err, &negativeAvailErr) {
		h.Error(c, dto.GetHTTPStatus(negativeAvailErr.Code()), negativeAvailErr.Code(), negativeAvailErr.Error())
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
