package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/handlers"
	"github.com/lensfolio/backoffice/internal/middleware"
	"github.com/lensfolio/backoffice/internal/rbac"
	"github.com/lensfolio/backoffice/internal/services"
)

// registerBookingRoutes wires packages, clothes and reservations. These
// modules use a single manage gate covering reads and writes alike.
func registerBookingRoutes(api *gin.RouterGroup, db *gorm.DB, resolver *rbac.Resolver, audit *services.AuditService) error {
	categoryHandler, err := handlers.NewCategoryHandler(db, audit)
	if err != nil {
		return err
	}

	// Categories organise both packages and clothing stock, so they share
	// the packages gate.
	categories := api.Group("/categories")
	categories.Use(middleware.RequirePermission(resolver, audit, rbac.PermPackagesManage))
	{
		categories.GET("", categoryHandler.List)
		categories.POST("", categoryHandler.Create)
		categories.GET("/:id", categoryHandler.Get)
		categories.PUT("/:id", categoryHandler.Update)
		categories.DELETE("/:id", categoryHandler.Delete)
	}

	packageHandler, err := handlers.NewPackageHandler(db, audit)
	if err != nil {
		return err
	}

	packages := api.Group("/packages")
	packages.Use(middleware.RequirePermission(resolver, audit, rbac.PermPackagesManage))
	{
		packages.GET("", packageHandler.List)
		packages.POST("", packageHandler.Create)
		packages.GET("/:id", packageHandler.Get)
		packages.PUT("/:id", packageHandler.Update)
		packages.DELETE("/:id", packageHandler.Delete)
	}

	clothHandler, err := handlers.NewClothHandler(db, audit)
	if err != nil {
		return err
	}

	clothes := api.Group("/clothes")
	clothes.Use(middleware.RequirePermission(resolver, audit, rbac.PermClothesManage))
	{
		clothes.GET("", clothHandler.List)
		clothes.POST("", clothHandler.Create)
		clothes.GET("/:id", clothHandler.Get)
		clothes.PUT("/:id", clothHandler.Update)
		clothes.PATCH("/:id/status", clothHandler.UpdateStatus)
		clothes.DELETE("/:id", clothHandler.Delete)
	}

	reservationHandler, err := handlers.NewReservationHandler(db, audit)
	if err != nil {
		return err
	}

	reservations := api.Group("/reservations")
	reservations.Use(middleware.RequirePermission(resolver, audit, rbac.PermReservationsManage))
	{
		reservations.GET("", reservationHandler.List)
		reservations.GET("/calendar", reservationHandler.Calendar)
		reservations.POST("", reservationHandler.Create)
		reservations.GET("/:id", reservationHandler.Get)
		reservations.PUT("/:id", reservationHandler.Update)
		reservations.POST("/:id/payments", reservationHandler.RecordPayment)
		reservations.DELETE("/:id", reservationHandler.Delete)
	}

	return nil
}
