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

type ClientHandler struct {
	svc *services.ClientService
}

func NewClientHandler(db *gorm.DB, audit *services.AuditService) (*ClientHandler, error) {
	svc, err := services.NewClientService(db, audit)
	if err != nil {
		return nil, err
	}
	return &ClientHandler{svc: svc}, nil
}

type clientRequest struct {
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Notes        string     `json:"notes"`
	Status       string     `json:"status"`
	RegisteredAt *time.Time `json:"registered_at"`
}

func (r clientRequest) input() services.ClientInput {
	return services.ClientInput{
		Name:         r.Name,
		Phone:        r.Phone,
		Email:        r.Email,
		Notes:        r.Notes,
		Status:       r.Status,
		RegisteredAt: r.RegisteredAt,
	}
}

// GET /api/clients
func (h *ClientHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 50)

	clients, total, err := h.svc.List(requestContext(c), services.ListClientsOptions{
		Page:     page,
		PageSize: perPage,
		Query:    c.Query("q"),
		Status:   c.Query("status"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, clients, pageMeta(page, perPage, total))
}

// GET /api/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, client)
}

// POST /api/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var body clientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	client, err := h.svc.Create(requestContext(c), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, client)
}

// PUT /api/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	var body clientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	client, err := h.svc.Update(requestContext(c), c.Param("id"), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, client)
}

// DELETE /api/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
