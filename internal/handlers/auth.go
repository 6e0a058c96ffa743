package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/auth"
	"github.com/lensfolio/backoffice/internal/middleware"
	"github.com/lensfolio/backoffice/internal/rbac"
	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/response"
	"github.com/lensfolio/backoffice/pkg/validator"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(db *gorm.DB, jwt *auth.JWTService, resolver *rbac.Resolver, audit *services.AuditService) (*AuthHandler, error) {
	users, err := services.NewUserService(db, audit)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewAuthService(db, jwt, resolver, users, audit, 0)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{svc: svc}, nil
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}
	if errs := validator.ValidateStruct(body); errs != nil {
		response.Error(c, errors.NewBadRequest(errs.Error()))
		return
	}

	result, err := h.svc.Register(requestContext(c), services.RegisterInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	result, err := h.svc.Login(requestContext(c), services.LoginInput{
		Email:     body.Email,
		Password:  body.Password,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	profile, err := h.svc.CurrentUser(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	h.svc.Logout(requestContext(c), userID, c.ClientIP())
	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}
