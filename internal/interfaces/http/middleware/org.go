package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/logger"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Headers set by the authentication layer in front of the API
const (
	OrgIDHeader    = "X-Org-ID"
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"
)

// Gin context keys of the caller identity
const (
	OrgIDKey    = "org_id"
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"

	orgUUIDKey  = "org_uuid"
	userUUIDKey = "user_uuid"
)

// OrgContext requires a valid X-Org-ID and stores the caller identity in the
// gin context and in the request context logger. X-User-ID is optional but
// must be a UUID when present.
func OrgContext(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(OrgIDHeader)
		if raw == "" {
			abortUnauthorized(c, "missing "+OrgIDHeader+" header")
			return
		}
		orgID, err := uuid.Parse(raw)
		if err != nil || orgID == uuid.Nil {
			abortUnauthorized(c, "invalid "+OrgIDHeader+" header")
			return
		}

		// the gin request logger already carries request_id
		ctx := c.Request.Context()
		var reqLogger *zap.Logger
		if _, ok := c.Get(logger.GinLoggerKey); ok {
			reqLogger = logger.GetGinLogger(c)
			ctx, _ = logger.WithRequestID(ctx, reqLogger, GetRequestID(c))
		} else {
			ctx, reqLogger = logger.WithRequestID(ctx, base, GetRequestID(c))
		}
		ctx, reqLogger = logger.WithOrgID(ctx, reqLogger, orgID.String())

		c.Set(OrgIDKey, orgID.String())
		c.Set(orgUUIDKey, orgID)

		if rawUser := c.GetHeader(UserIDHeader); rawUser != "" {
			userID, err := uuid.Parse(rawUser)
			if err != nil {
				abortUnauthorized(c, "invalid "+UserIDHeader+" header")
				return
			}
			c.Set(UserIDKey, userID.String())
			c.Set(userUUIDKey, userID)
			ctx, reqLogger = logger.WithUserID(ctx, reqLogger, userID.String())
		}
		if role := c.GetHeader(UserRoleHeader); role != "" {
			c.Set(UserRoleKey, role)
		}

		c.Set(logger.GinLoggerKey, reqLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, detail, GetRequestID(c)))
}

// GetOrgID returns the organization of the request. The second result is
// false when OrgContext did not run.
func GetOrgID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(orgUUIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserID returns the acting user, or nil for anonymous system calls
func GetUserID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get(userUUIDKey)
	if !ok {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// GetUserRole returns the role forwarded by the authentication layer
func GetUserRole(c *gin.Context) string {
	return c.GetString(UserRoleKey)
}
