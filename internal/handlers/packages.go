package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/response"
)

type PackageHandler struct {
	svc *services.PackageService
}

func NewPackageHandler(db *gorm.DB, audit *services.AuditService) (*PackageHandler, error) {
	svc, err := services.NewPackageService(db, audit)
	if err != nil {
		return nil, err
	}
	return &PackageHandler{svc: svc}, nil
}

type packageRequest struct {
	Name          string  `json:"name"`
	CategoryID    string  `json:"category_id"`
	SubcategoryID *string `json:"subcategory_id"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Duration      int     `json:"duration"`
	DurationUnit  string  `json:"duration_unit"`
}

func (r packageRequest) input() services.PackageInput {
	return services.PackageInput{
		Name:          r.Name,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		Description:   r.Description,
		Price:         r.Price,
		Duration:      r.Duration,
		DurationUnit:  r.DurationUnit,
	}
}

// GET /api/packages
func (h *PackageHandler) List(c *gin.Context) {
	packages, err := h.svc.List(requestContext(c), c.Query("category_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, packages)
}

// GET /api/packages/:id
func (h *PackageHandler) Get(c *gin.Context) {
	pkg, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pkg)
}

// POST /api/packages
func (h *PackageHandler) Create(c *gin.Context) {
	var body packageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	pkg, err := h.svc.Create(requestContext(c), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, pkg)
}

// PUT /api/packages/:id
func (h *PackageHandler) Update(c *gin.Context) {
	var body packageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	pkg, err := h.svc.Update(requestContext(c), c.Param("id"), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pkg)
}

// DELETE /api/packages/:id
func (h *PackageHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
