package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/response"
)

type CategoryHandler struct {
	svc *services.CategoryService
}

func NewCategoryHandler(db *gorm.DB, audit *services.AuditService) (*CategoryHandler, error) {
	svc, err := services.NewCategoryService(db, audit)
	if err != nil {
		return nil, err
	}
	return &CategoryHandler{svc: svc}, nil
}

// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.svc.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, category)
}

// POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var body struct {
		Name     string  `json:"name"`
		ParentID *string `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	category, err := h.svc.Create(requestContext(c), services.CategoryInput{
		Name:     body.Name,
		ParentID: body.ParentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, category)
}

// PUT /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var body struct {
		Name     string  `json:"name"`
		ParentID *string `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	category, err := h.svc.Update(requestContext(c), c.Param("id"), services.CategoryInput{
		Name:     body.Name,
		ParentID: body.ParentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, category)
}

// DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
