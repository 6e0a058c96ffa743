package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/response"
)

type ClothHandler struct {
	svc *services.ClothService
}

func NewClothHandler(db *gorm.DB, audit *services.AuditService) (*ClothHandler, error) {
	svc, err := services.NewClothService(db, audit)
	if err != nil {
		return nil, err
	}
	return &ClothHandler{svc: svc}, nil
}

type clothRequest struct {
	Image         string  `json:"image"`
	Name          string  `json:"name"`
	CategoryID    string  `json:"category_id"`
	SubcategoryID *string `json:"subcategory_id"`
	BranchID      string  `json:"branch_id"`
	Price         float64 `json:"price"`
	Status        string  `json:"status"`
}

func (r clothRequest) input() services.ClothInput {
	return services.ClothInput{
		Image:         r.Image,
		Name:          r.Name,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		BranchID:      r.BranchID,
		Price:         r.Price,
		Status:        r.Status,
	}
}

// GET /api/clothes
func (h *ClothHandler) List(c *gin.Context) {
	clothes, err := h.svc.List(requestContext(c), services.ListClothesOptions{
		BranchID:   c.Query("branch_id"),
		CategoryID: c.Query("category_id"),
		Status:     c.Query("status"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, clothes)
}

// GET /api/clothes/:id
func (h *ClothHandler) Get(c *gin.Context) {
	cloth, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, cloth)
}

// POST /api/clothes
func (h *ClothHandler) Create(c *gin.Context) {
	var body clothRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	cloth, err := h.svc.Create(requestContext(c), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cloth)
}

// PUT /api/clothes/:id
func (h *ClothHandler) Update(c *gin.Context) {
	var body clothRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	cloth, err := h.svc.Update(requestContext(c), c.Param("id"), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, cloth)
}

// PATCH /api/clothes/:id/status
func (h *ClothHandler) UpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	cloth, err := h.svc.UpdateStatus(requestContext(c), c.Param("id"), body.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, cloth)
}

// DELETE /api/clothes/:id
func (h *ClothHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
