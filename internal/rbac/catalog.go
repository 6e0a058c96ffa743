package rbac

// Stock role names created at bootstrap.
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAdmin      = "Admin"
	RoleEditor     = "Editor"
	RoleViewer     = "Viewer"
)

// Catalog permission keys. Route wiring references these constants so gate
// allow-lists are typed rather than parsed from strings at runtime.
const (
	PermUsersView   = "users.view"
	PermUsersManage = "users.manage"

	PermRolesView         = "roles.view"
	PermRolesManage       = "roles.manage"
	PermPermissionsManage = "permissions.manage"

	PermAuditView = "audit.view"

	PermBranchesView   = "branches.view"
	PermBranchesManage = "branches.manage"

	PermClientsView   = "clients.view"
	PermClientsManage = "clients.manage"

	PermProjectsView   = "projects.view"
	PermProjectsManage = "projects.manage"

	PermProductionView   = "production.view"
	PermProductionManage = "production.manage"

	PermFilesUpload = "files.upload"

	PermReportsView = "reports.view"

	PermPackagesManage     = "packages.manage"
	PermClothesManage      = "clothes.manage"
	PermReservationsManage = "reservations.manage"
)

// Definition describes one catalog permission seeded at bootstrap.
type Definition struct {
	Key    string
	Name   string
	Module string
}

// RoleSeed describes a stock role and the permission keys it starts with.
// A nil PermissionKeys slice means "every catalog permission".
type RoleSeed struct {
	Name           string
	Description    string
	PermissionKeys []string
}

// Catalog returns the permission definitions for every back-office module.
func Catalog() []Definition {
	return []Definition{
		{Key: PermUsersView, Name: "View users", Module: "users"},
		{Key: PermUsersManage, Name: "Manage users", Module: "users"},

		{Key: PermRolesView, Name: "View roles", Module: "roles"},
		{Key: PermRolesManage, Name: "Manage roles", Module: "roles"},
		{Key: PermPermissionsManage, Name: "Manage permissions", Module: "permissions"},

		{Key: PermAuditView, Name: "View audit logs", Module: "audit"},

		{Key: PermBranchesView, Name: "View branches", Module: "branches"},
		{Key: PermBranchesManage, Name: "Manage branches", Module: "branches"},

		{Key: PermClientsView, Name: "View clients", Module: "clients"},
		{Key: PermClientsManage, Name: "Manage clients", Module: "clients"},

		{Key: PermProjectsView, Name: "View projects", Module: "projects"},
		{Key: PermProjectsManage, Name: "Manage projects", Module: "projects"},

		{Key: PermProductionView, Name: "View production tasks", Module: "production"},
		{Key: PermProductionManage, Name: "Manage production tasks", Module: "production"},

		{Key: PermFilesUpload, Name: "Upload project files", Module: "files"},

		{Key: PermReportsView, Name: "View reports", Module: "reports"},

		{Key: PermPackagesManage, Name: "Manage packages", Module: "packages"},
		{Key: PermClothesManage, Name: "Manage clothing items", Module: "clothes"},
		{Key: PermReservationsManage, Name: "Manage reservations", Module: "reservations"},
	}
}

// DefaultRoles returns the stock roles created at bootstrap. SuperAdmin is
// granted the full catalog instead of bypassing gate checks, which keeps the
// authorization model single-sourced.
func DefaultRoles() []RoleSeed {
	return []RoleSeed{
		{
			Name:        RoleSuperAdmin,
			Description: "Full system access",
		},
		{
			Name:        RoleAdmin,
			Description: "General administration",
			PermissionKeys: []string{
				PermUsersView, PermUsersManage,
				PermRolesView, PermRolesManage,
				PermPermissionsManage,
				PermAuditView,
				PermBranchesView, PermBranchesManage,
				PermClientsView, PermClientsManage,
				PermProjectsView, PermProjectsManage,
				PermProductionView, PermProductionManage,
				PermFilesUpload,
				PermReportsView,
			},
		},
		{
			Name:        RoleEditor,
			Description: "Project and production management",
			PermissionKeys: []string{
				PermProjectsView, PermProjectsManage,
				PermProductionView, PermProductionManage,
				PermFilesUpload,
			},
		},
		{
			Name:        RoleViewer,
			Description: "Read-only access",
			PermissionKeys: []string{
				PermProjectsView,
				PermBranchesView,
				PermClientsView,
				PermReportsView,
			},
		},
	}
}
