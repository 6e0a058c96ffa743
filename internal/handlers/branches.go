package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/response"
)

type BranchHandler struct {
	svc *services.BranchService
}

func NewBranchHandler(db *gorm.DB, audit *services.AuditService) (*BranchHandler, error) {
	svc, err := services.NewBranchService(db, audit)
	if err != nil {
		return nil, err
	}
	return &BranchHandler{svc: svc}, nil
}

type branchRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	ManagerName string `json:"manager_name"`
	Status      string `json:"status"`
}

func (r branchRequest) input() services.BranchInput {
	return services.BranchInput{
		Name:        r.Name,
		Address:     r.Address,
		City:        r.City,
		ManagerName: r.ManagerName,
		Status:      r.Status,
	}
}

// GET /api/branches
func (h *BranchHandler) List(c *gin.Context) {
	branches, err := h.svc.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, branches)
}

// GET /api/branches/:id
func (h *BranchHandler) Get(c *gin.Context) {
	branch, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, branch)
}

// POST /api/branches
func (h *BranchHandler) Create(c *gin.Context) {
	var body branchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	branch, err := h.svc.Create(requestContext(c), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, branch)
}

// PUT /api/branches/:id
func (h *BranchHandler) Update(c *gin.Context) {
	var body branchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	branch, err := h.svc.Update(requestContext(c), c.Param("id"), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, branch)
}

// DELETE /api/branches/:id
func (h *BranchHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
