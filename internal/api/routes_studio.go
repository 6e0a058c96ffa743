package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/handlers"
	"github.com/lensfolio/backoffice/internal/middleware"
	"github.com/lensfolio/backoffice/internal/rbac"
	"github.com/lensfolio/backoffice/internal/services"
)

// registerStudioRoutes wires branches, clients, projects, production tasks,
// project files and reports. Each module splits into a view gate for reads
// and a manage gate for mutations.
func registerStudioRoutes(api *gin.RouterGroup, db *gorm.DB, resolver *rbac.Resolver, audit *services.AuditService) error {
	branchHandler, err := handlers.NewBranchHandler(db, audit)
	if err != nil {
		return err
	}

	branches := api.Group("/branches")
	{
		view := middleware.RequirePermission(resolver, audit, rbac.PermBranchesView)
		manage := middleware.RequirePermission(resolver, audit, rbac.PermBranchesManage)

		branches.GET("", view, branchHandler.List)
		branches.GET("/:id", view, branchHandler.Get)
		branches.POST("", manage, branchHandler.Create)
		branches.PUT("/:id", manage, branchHandler.Update)
		branches.DELETE("/:id", manage, branchHandler.Delete)
	}

	clientHandler, err := handlers.NewClientHandler(db, audit)
	if err != nil {
		return err
	}

	clients := api.Group("/clients")
	{
		view := middleware.RequirePermission(resolver, audit, rbac.PermClientsView)
		manage := middleware.RequirePermission(resolver, audit, rbac.PermClientsManage)

		clients.GET("", view, clientHandler.List)
		clients.GET("/:id", view, clientHandler.Get)
		clients.POST("", manage, clientHandler.Create)
		clients.PUT("/:id", manage, clientHandler.Update)
		clients.DELETE("/:id", manage, clientHandler.Delete)
	}

	projectHandler, err := handlers.NewProjectHandler(db, audit)
	if err != nil {
		return err
	}
	fileHandler, err := handlers.NewProjectFileHandler(db, audit)
	if err != nil {
		return err
	}

	projects := api.Group("/projects")
	{
		view := middleware.RequirePermission(resolver, audit, rbac.PermProjectsView)
		manage := middleware.RequirePermission(resolver, audit, rbac.PermProjectsManage)
		upload := middleware.RequirePermission(resolver, audit, rbac.PermFilesUpload)

		projects.GET("", view, projectHandler.List)
		projects.GET("/:id", view, projectHandler.Get)
		projects.POST("", manage, projectHandler.Create)
		projects.PUT("/:id", manage, projectHandler.Update)
		projects.POST("/:id/deliver", manage, projectHandler.Deliver)
		projects.DELETE("/:id", manage, projectHandler.Delete)

		projects.GET("/:id/files", view, fileHandler.List)
		projects.POST("/:id/files", upload, fileHandler.Create)
		projects.DELETE("/:id/files/:fileId", upload, fileHandler.Delete)
	}

	productionHandler, err := handlers.NewProductionHandler(db, audit)
	if err != nil {
		return err
	}

	production := api.Group("/production")
	{
		view := middleware.RequirePermission(resolver, audit, rbac.PermProductionView)
		manage := middleware.RequirePermission(resolver, audit, rbac.PermProductionManage)

		production.GET("", view, productionHandler.List)
		production.GET("/:id", view, productionHandler.Get)
		production.POST("", manage, productionHandler.Create)
		production.PUT("/:id", manage, productionHandler.Update)
		production.POST("/:id/start", manage, productionHandler.Start)
		production.POST("/:id/finish", manage, productionHandler.Finish)
		production.DELETE("/:id", manage, productionHandler.Delete)
	}

	reportHandler, err := handlers.NewReportHandler(db)
	if err != nil {
		return err
	}

	reports := api.Group("/reports")
	reports.Use(middleware.RequirePermission(resolver, audit, rbac.PermReportsView))
	{
		reports.GET("/summary", reportHandler.Summary)
		reports.GET("/projects-by-branch", reportHandler.ProjectsByBranch)
		reports.GET("/productivity", reportHandler.Productivity)
	}

	return nil
}
