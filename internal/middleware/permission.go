package middleware

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lensfolio/backoffice/internal/rbac"
	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/metrics"
	"github.com/lensfolio/backoffice/pkg/response"
)

// RequirePermission gates a route behind the caller's effective permission
// set: the union of role-derived and direct grants. The caller needs any one
// of the supplied keys. A denial reports the keys that would have satisfied
// the gate and lands on the audit trail.
func RequirePermission(resolver *rbac.Resolver, audit *services.AuditService, keys ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := authenticatedUserID(c)
		if userID == "" {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		ok, err := resolver.HasAnyPermission(c.Request.Context(), userID, keys...)
		if err != nil {
			metrics.PermissionChecks.WithLabelValues("error").Inc()
			abortOnResolverError(c, err)
			return
		}
		if !ok {
			metrics.PermissionChecks.WithLabelValues("denied").Inc()
			auditDenial(audit, c, map[string]any{"required_permissions": keys})
			response.ErrorWithDetails(c, errors.ErrForbidden, gin.H{"required_permissions": keys})
			c.Abort()
			return
		}

		metrics.PermissionChecks.WithLabelValues("allowed").Inc()
		c.Next()
	}
}

// auditDenial records a refused authorization check. The write is
// fire-and-forget: a failing or absent audit service never changes the
// response the caller sees.
func auditDenial(audit *services.AuditService, c *gin.Context, details map[string]any) {
	if audit == nil {
		return
	}

	entry := services.AuditEntry{
		Action:    "authz.denied",
		Resource:  c.Request.Method + " " + c.FullPath(),
		Result:    "denied",
		IPAddress: c.ClientIP(),
		Details:   details,
	}
	if userID := authenticatedUserID(c); userID != "" {
		entry.UserID = &userID
	}
	_ = audit.Log(c.Request.Context(), entry)
}

// abortOnResolverError maps a failed grant lookup to a response. A token for
// a user that no longer exists is treated as unauthenticated; anything else
// is an infrastructure failure.
func abortOnResolverError(c *gin.Context, err error) {
	if stderrors.Is(err, rbac.ErrUserNotFound) {
		response.Error(c, errors.ErrUnauthorized)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   gin.H{"code": errors.ErrInternalServer.Code, "message": "authorization check failed"},
	})
}
