package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/rbac"
	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/response"
)

// UserAccessHandler exposes the per-user authorization profile: role
// assignments and direct permission grants.
type UserAccessHandler struct {
	svc *services.AccessService
}

func NewUserAccessHandler(db *gorm.DB, resolver *rbac.Resolver, audit *services.AuditService) (*UserAccessHandler, error) {
	svc, err := services.NewAccessService(db, resolver, audit)
	if err != nil {
		return nil, err
	}
	return &UserAccessHandler{svc: svc}, nil
}

// GET /api/users/:id/access
func (h *UserAccessHandler) Show(c *gin.Context) {
	access, err := h.svc.UserAccess(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, access)
}

// POST /api/users/:id/roles/:roleId
func (h *UserAccessHandler) AssignRole(c *gin.Context) {
	if err := h.svc.AssignRole(requestContext(c), c.Param("id"), c.Param("roleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"assigned": true})
}

// DELETE /api/users/:id/roles/:roleId
func (h *UserAccessHandler) RemoveRole(c *gin.Context) {
	if err := h.svc.RemoveRole(requestContext(c), c.Param("id"), c.Param("roleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

// POST /api/users/:id/permissions/:permissionId
func (h *UserAccessHandler) GrantPermission(c *gin.Context) {
	if err := h.svc.GrantPermission(requestContext(c), c.Param("id"), c.Param("permissionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"granted": true})
}

// DELETE /api/users/:id/permissions/:permissionId
func (h *UserAccessHandler) RevokePermission(c *gin.Context) {
	if err := h.svc.RevokePermission(requestContext(c), c.Param("id"), c.Param("permissionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"revoked": true})
}
