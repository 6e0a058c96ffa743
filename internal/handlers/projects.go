package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/response"
)

type ProjectHandler struct {
	svc *services.ProjectService
}

func NewProjectHandler(db *gorm.DB, audit *services.AuditService) (*ProjectHandler, error) {
	svc, err := services.NewProjectService(db, audit)
	if err != nil {
		return nil, err
	}
	return &ProjectHandler{svc: svc}, nil
}

type projectRequest struct {
	ClientID              string     `json:"client_id"`
	BranchID              string     `json:"branch_id"`
	ResponsibleID         *string    `json:"responsible_id"`
	Title                 string     `json:"title"`
	Type                  string     `json:"type"`
	SessionDate           *time.Time `json:"session_date"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
	Status                string     `json:"status"`
	InternalNotes         string     `json:"internal_notes"`
	Priority              string     `json:"priority"`
}

func (r projectRequest) input() services.ProjectInput {
	return services.ProjectInput{
		ClientID:              r.ClientID,
		BranchID:              r.BranchID,
		ResponsibleID:         r.ResponsibleID,
		Title:                 r.Title,
		Type:                  r.Type,
		SessionDate:           r.SessionDate,
		EstimatedDeliveryDate: r.EstimatedDeliveryDate,
		Status:                r.Status,
		InternalNotes:         r.InternalNotes,
		Priority:              r.Priority,
	}
}

// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 50)

	projects, total, err := h.svc.List(requestContext(c), services.ListProjectsOptions{
		Page:     page,
		PageSize: perPage,
		ClientID: c.Query("client_id"),
		BranchID: c.Query("branch_id"),
		Status:   c.Query("status"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, projects, pageMeta(page, perPage, total))
}

// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var body projectRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	project, err := h.svc.Create(requestContext(c), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, project)
}

// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var body projectRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	project, err := h.svc.Update(requestContext(c), c.Param("id"), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

// POST /api/projects/:id/deliver
func (h *ProjectHandler) Deliver(c *gin.Context) {
	project, err := h.svc.Deliver(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
