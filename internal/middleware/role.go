package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/lensfolio/backoffice/internal/rbac"
	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/metrics"
	"github.com/lensfolio/backoffice/pkg/response"
)

// RequireRole gates a route behind role membership. The caller must hold at
// least one of the named roles; the allow-list is fixed at wiring time. A
// denial reports which roles would have satisfied the gate (role names are
// not secret) and lands on the audit trail.
func RequireRole(resolver *rbac.Resolver, audit *services.AuditService, roleNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := authenticatedUserID(c)
		if userID == "" {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		ok, err := resolver.HasRole(c.Request.Context(), userID, roleNames...)
		if err != nil {
			metrics.RoleChecks.WithLabelValues("error").Inc()
			abortOnResolverError(c, err)
			return
		}
		if !ok {
			metrics.RoleChecks.WithLabelValues("denied").Inc()
			auditDenial(audit, c, map[string]any{"required_roles": roleNames})
			response.ErrorWithDetails(c, errors.ErrForbidden, gin.H{"required_roles": roleNames})
			c.Abort()
			return
		}

		metrics.RoleChecks.WithLabelValues("allowed").Inc()
		c.Next()
	}
}

func authenticatedUserID(c *gin.Context) string {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return ""
	}
	userID, _ := v.(string)
	return userID
}
