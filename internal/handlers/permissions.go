package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/response"
)

type PermissionHandler struct {
	svc *services.PermissionService
}

func NewPermissionHandler(db *gorm.DB, audit *services.AuditService) (*PermissionHandler, error) {
	svc, err := services.NewPermissionService(db, audit)
	if err != nil {
		return nil, err
	}
	return &PermissionHandler{svc: svc}, nil
}

// GET /api/permissions
func (h *PermissionHandler) List(c *gin.Context) {
	permissions, err := h.svc.List(requestContext(c), services.PermissionFilters{
		Module: c.Query("module"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, permissions)
}

// GET /api/permissions/:id
func (h *PermissionHandler) Get(c *gin.Context) {
	permission, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, permission)
}

// POST /api/permissions
func (h *PermissionHandler) Create(c *gin.Context) {
	var body struct {
		Key    string `json:"key"`
		Name   string `json:"name"`
		Module string `json:"module"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	permission, err := h.svc.Create(requestContext(c), services.CreatePermissionInput{
		Key:    body.Key,
		Name:   body.Name,
		Module: body.Module,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, permission)
}

// PUT /api/permissions/:id
func (h *PermissionHandler) Update(c *gin.Context) {
	var body struct {
		Key    *string `json:"key"`
		Name   *string `json:"name"`
		Module *string `json:"module"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	permission, err := h.svc.Update(requestContext(c), c.Param("id"), services.UpdatePermissionInput{
		Key:    body.Key,
		Name:   body.Name,
		Module: body.Module,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, permission)
}

// DELETE /api/permissions/:id
func (h *PermissionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
