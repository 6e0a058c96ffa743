package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/lensfolio/backoffice/internal/auth"
	"github.com/lensfolio/backoffice/internal/handlers"
	"github.com/lensfolio/backoffice/internal/middleware"
	"github.com/lensfolio/backoffice/internal/rbac"
	"github.com/lensfolio/backoffice/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	// Basic rate limiting: 100 requests/minute per IP+path
	r.Use(middleware.RateLimit(100, time.Minute))

	r.NoRoute(middleware.NotFoundHandler)

	// Health and metrics endpoints (public)
	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	resolver, err := rbac.NewResolver(db)
	if err != nil {
		return nil, err
	}
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}

	authHandler, err := handlers.NewAuthHandler(db, jwt, resolver, audit)
	if err != nil {
		return nil, err
	}

	// Public auth routes
	registerAuthRoutes(r, authHandler)

	// Everything below requires a valid bearer token.
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	api.GET("/auth/me", authHandler.Me)
	api.POST("/auth/logout", authHandler.Logout)

	if err := registerAdminRoutes(api, db, resolver, audit); err != nil {
		return nil, err
	}
	if err := registerStudioRoutes(api, db, resolver, audit); err != nil {
		return nil, err
	}
	if err := registerBookingRoutes(api, db, resolver, audit); err != nil {
		return nil, err
	}

	return r, nil
}
