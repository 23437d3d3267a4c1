package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/logger"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/dto"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// DateLayout is the format of date query parameters
const DateLayout = "2006-01-02"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta. Page and
// page size are reported after the defaults and caps applied by the query.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	f := shared.Filter{Page: page, PageSize: pageSize}.Normalize()
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, f.Page, f.PageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error envelope whose status follows code
func (h *BaseHandler) Error(c *gin.Context, code, detail string) {
	c.Set(middleware.ErrorCodeKey, code)
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, detail, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 VALIDATION response without field details
func (h *BaseHandler) BadRequest(c *gin.Context, detail string) {
	h.Error(c, dto.ErrCodeValidation, detail)
}

// HandleError converts service errors to HTTP responses. Domain errors keep
// their code and details; anything else is logged and reported as INTERNAL.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	requestID := middleware.GetRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		var details any
		if len(domainErr.Details) > 0 {
			details = domainErr.Details
		}
		c.Set(middleware.ErrorCodeKey, domainErr.Code)
		c.JSON(dto.GetHTTPStatus(domainErr.Code),
			dto.NewErrorResponseWithDetails(domainErr.Code, domainErr.Message, requestID, details))
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		h.Error(c, dto.ErrCodeTimeout, "request deadline exceeded")
		return
	}

	logger.GetGinLogger(c).Error("request failed",
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	h.Error(c, dto.ErrCodeInternal, "An internal error occurred")
}

// bindJSON binds the body into req and writes the VALIDATION envelope on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters into req and writes the VALIDATION envelope on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// orgID returns the caller organization. OrgContext guards every API route,
// so a miss means the handler is mounted outside it.
func (h *BaseHandler) orgID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetOrgID(c)
	if !ok {
		h.Error(c, dto.ErrCodeUnauthorized, "missing "+middleware.OrgIDHeader+" header")
	}
	return id, ok
}

// pathID parses the :id path parameter
func (h *BaseHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses an optional UUID query parameter
func (h *BaseHandler) queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "invalid "+name)
		return nil, false
	}
	return &id, true
}

// queryDate parses an optional YYYY-MM-DD query parameter
func (h *BaseHandler) queryDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		h.BadRequest(c, name+" must be a date in YYYY-MM-DD format")
		return nil, false
	}
	return &t, true
}

// period reads from and to. To defaults to today and from to the first day
// of to's month.
func (h *BaseHandler) period(c *gin.Context, clock shared.Clock) (time.Time, time.Time, bool) {
	from, ok := h.queryDate(c, "from")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := h.queryDate(c, "to")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end := shared.Today(clock)
	if to != nil {
		end = *to
	}
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	if from != nil {
		start = *from
	}
	return start, end, true
}

// queryDecimal parses a required decimal query parameter
func (h *BaseHandler) queryDecimal(c *gin.Context, name string) (decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		h.BadRequest(c, name+" is required")
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		h.BadRequest(c, name+" must be a number")
		return decimal.Zero, false
	}
	return d, true
}

// queryInt parses an optional integer query parameter
func (h *BaseHandler) queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		h.BadRequest(c, name+" must be an integer")
		return 0, false
	}
	return n, true
}

// bindOptionalJSON binds the body when one was sent
func (h *BaseHandler) bindOptionalJSON(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return h.bindJSON(c, req)
}
