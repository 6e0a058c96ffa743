package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/handlers"
	"github.com/lensfolio/backoffice/internal/middleware"
	"github.com/lensfolio/backoffice/internal/rbac"
	"github.com/lensfolio/backoffice/internal/services"
)

// registerAdminRoutes wires users, roles, permissions, per-user access and the
// audit trail. The gate layout mirrors the admin panel contract: user
// administration is open to SuperAdmin or Admin, role administration is
// SuperAdmin-only, and role update/delete additionally require the
// roles.manage permission (both gates must pass).
func registerAdminRoutes(api *gin.RouterGroup, db *gorm.DB, resolver *rbac.Resolver, audit *services.AuditService) error {
	userHandler, err := handlers.NewUserHandler(db, audit)
	if err != nil {
		return err
	}
	accessHandler, err := handlers.NewUserAccessHandler(db, resolver, audit)
	if err != nil {
		return err
	}

	users := api.Group("/users")
	users.Use(middleware.RequireRole(resolver, audit, rbac.RoleSuperAdmin, rbac.RoleAdmin))
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)

		// Per-user role assignments and direct permission grants
		users.GET("/:id/access", accessHandler.Show)
		users.POST("/:id/roles/:roleId", accessHandler.AssignRole)
		users.DELETE("/:id/roles/:roleId", accessHandler.RemoveRole)
		users.POST("/:id/permissions/:permissionId", accessHandler.GrantPermission)
		users.DELETE("/:id/permissions/:permissionId", accessHandler.RevokePermission)
	}

	roleHandler, err := handlers.NewRoleHandler(db, audit)
	if err != nil {
		return err
	}

	// Role listing is open to Admin as well; mutations stay SuperAdmin-only.
	roleViews := api.Group("/roles")
	roleViews.Use(middleware.RequireRole(resolver, audit, rbac.RoleSuperAdmin, rbac.RoleAdmin))
	{
		roleViews.GET("", roleHandler.List)
		roleViews.GET("/:id", roleHandler.Get)
	}

	roles := api.Group("/roles")
	roles.Use(middleware.RequireRole(resolver, audit, rbac.RoleSuperAdmin))
	{
		roles.POST("", roleHandler.Create)

		// Update and delete compose the role gate with a permission gate:
		// the caller must be SuperAdmin and hold roles.manage.
		guarded := roles.Group("")
		guarded.Use(middleware.RequirePermission(resolver, audit, rbac.PermRolesManage))
		{
			guarded.PUT("/:id", roleHandler.Update)
			guarded.DELETE("/:id", roleHandler.Delete)
		}

		roles.POST("/:id/permissions", roleHandler.AssignPermissions)
		roles.DELETE("/:id/permissions/:permissionId", roleHandler.RevokePermission)
	}

	permissionHandler, err := handlers.NewPermissionHandler(db, audit)
	if err != nil {
		return err
	}

	permissions := api.Group("/permissions")
	{
		permissions.GET("", permissionHandler.List)
		permissions.POST("", permissionHandler.Create)
		permissions.GET("/:id", permissionHandler.Get)
		permissions.PUT("/:id", permissionHandler.Update)
		permissions.DELETE("/:id", permissionHandler.Delete)
	}

	auditHandler, err := handlers.NewAuditHandler(audit)
	if err != nil {
		return err
	}
	api.GET("/audit", middleware.RequirePermission(resolver, audit, rbac.PermAuditView), auditHandler.List)

	return nil
}
