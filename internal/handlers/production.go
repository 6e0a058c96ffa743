package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/response"
)

type ProductionHandler struct {
	svc *services.ProductionService
}

func NewProductionHandler(db *gorm.DB, audit *services.AuditService) (*ProductionHandler, error) {
	svc, err := services.NewProductionService(db, audit)
	if err != nil {
		return nil, err
	}
	return &ProductionHandler{svc: svc}, nil
}

type productionTaskRequest struct {
	ProjectID        string  `json:"project_id"`
	EditorID         *string `json:"editor_id"`
	Name             string  `json:"name"`
	Status           string  `json:"status"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	Notes            string  `json:"notes"`
}

func (r productionTaskRequest) input() services.ProductionTaskInput {
	return services.ProductionTaskInput{
		ProjectID:        r.ProjectID,
		EditorID:         r.EditorID,
		Name:             r.Name,
		Status:           r.Status,
		EstimatedMinutes: r.EstimatedMinutes,
		Notes:            r.Notes,
	}
}

// GET /api/production/tasks
func (h *ProductionHandler) List(c *gin.Context) {
	tasks, err := h.svc.List(requestContext(c), services.ListTasksOptions{
		ProjectID: c.Query("project_id"),
		EditorID:  c.Query("editor_id"),
		Status:    c.Query("status"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, tasks)
}

// GET /api/production/tasks/:id
func (h *ProductionHandler) Get(c *gin.Context) {
	task, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

// POST /api/production/tasks
func (h *ProductionHandler) Create(c *gin.Context) {
	var body productionTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	task, err := h.svc.Create(requestContext(c), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, task)
}

// PUT /api/production/tasks/:id
func (h *ProductionHandler) Update(c *gin.Context) {
	var body productionTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	task, err := h.svc.Update(requestContext(c), c.Param("id"), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

// POST /api/production/tasks/:id/start
func (h *ProductionHandler) Start(c *gin.Context) {
	task, err := h.svc.Start(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

// POST /api/production/tasks/:id/finish
func (h *ProductionHandler) Finish(c *gin.Context) {
	task, err := h.svc.Finish(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

// DELETE /api/production/tasks/:id
func (h *ProductionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
