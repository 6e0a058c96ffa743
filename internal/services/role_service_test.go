package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lensfolio/backoffice/internal/models"
	"github.com/lensfolio/backoffice/internal/services"
)

func TestRoleCreateWithPermissionKeys(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewRoleService(db, nil)
	require.NoError(t, err)

	createPermission(t, db, "projects.view")
	createPermission(t, db, "projects.manage")

	role, err := svc.Create(context.Background(), services.CreateRoleInput{
		Name:           "Editor",
		Description:    "Project work",
		PermissionKeys: []string{"projects.view", "projects.manage", "projects.view"},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"projects.view", "projects.manage"}, permissionKeys(role))
}

func TestRoleCreateRejectsUnknownKeyAtomically(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewRoleService(db, nil)
	require.NoError(t, err)

	createPermission(t, db, "clients.view")

	_, err = svc.Create(context.Background(), services.CreateRoleInput{
		Name:           "Broken",
		PermissionKeys: []string{"clients.view", "no.such.key"},
	})
	require.ErrorIs(t, err, services.ErrUnknownPermission)

	// The transaction rolled back; no role row was left behind.
	roles, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, roles)
}

func TestRoleCreateDuplicateName(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewRoleService(db, nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), services.CreateRoleInput{Name: "Admin"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), services.CreateRoleInput{Name: "Admin"})
	require.ErrorIs(t, err, services.ErrDuplicateRoleName)
}

func TestRoleUpdateReplacesPermissionSet(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewRoleService(db, nil)
	require.NoError(t, err)

	createPermission(t, db, "branches.view")
	createPermission(t, db, "branches.manage")
	createPermission(t, db, "reports.view")

	role, err := svc.Create(context.Background(), services.CreateRoleInput{
		Name:           "BranchAdmin",
		PermissionKeys: []string{"branches.view", "branches.manage"},
	})
	require.NoError(t, err)

	newKeys := []string{"reports.view"}
	role, err = svc.Update(context.Background(), role.ID, services.UpdateRoleInput{PermissionKeys: &newKeys})
	require.NoError(t, err)

	// Replace, not merge: the prior grants are gone.
	require.Equal(t, []string{"reports.view"}, permissionKeys(role))
}

func TestRoleUpdateUnknownKeyLeavesSetIntact(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewRoleService(db, nil)
	require.NoError(t, err)

	createPermission(t, db, "audit.view")

	role, err := svc.Create(context.Background(), services.CreateRoleInput{
		Name:           "Auditor",
		PermissionKeys: []string{"audit.view"},
	})
	require.NoError(t, err)

	badKeys := []string{"audit.view", "ghost.key"}
	_, err = svc.Update(context.Background(), role.ID, services.UpdateRoleInput{PermissionKeys: &badKeys})
	require.ErrorIs(t, err, services.ErrUnknownPermission)

	role, err = svc.Get(context.Background(), role.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"audit.view"}, permissionKeys(role))
}

func TestRoleAssignPermissionsIsAdditiveAndAtomic(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewRoleService(db, nil)
	require.NoError(t, err)

	createPermission(t, db, "users.view")
	createPermission(t, db, "users.manage")

	role, err := svc.Create(context.Background(), services.CreateRoleInput{
		Name:           "UserAdmin",
		PermissionKeys: []string{"users.view"},
	})
	require.NoError(t, err)

	// Unknown key aborts the whole attach.
	_, err = svc.AssignPermissions(context.Background(), role.ID, []string{"users.manage", "nope"})
	require.ErrorIs(t, err, services.ErrUnknownPermission)

	role, err = svc.Get(context.Background(), role.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"users.view"}, permissionKeys(role))

	// Valid keys attach without detaching existing grants.
	role, err = svc.AssignPermissions(context.Background(), role.ID, []string{"users.manage"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"users.view", "users.manage"}, permissionKeys(role))
}

func TestRoleRevokePermissionIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewRoleService(db, nil)
	require.NoError(t, err)

	perm := createPermission(t, db, "clothes.manage")

	role, err := svc.Create(context.Background(), services.CreateRoleInput{
		Name:           "Wardrobe",
		PermissionKeys: []string{"clothes.manage"},
	})
	require.NoError(t, err)

	role, err = svc.RevokePermission(context.Background(), role.ID, perm.ID)
	require.NoError(t, err)
	require.Empty(t, role.Permissions)

	// Revoking again is a no-op.
	role, err = svc.RevokePermission(context.Background(), role.ID, perm.ID)
	require.NoError(t, err)
	require.Empty(t, role.Permissions)
}

func TestRoleRenameAuditsNewName(t *testing.T) {
	db := openTestDB(t)
	audit, err := services.NewAuditService(db)
	require.NoError(t, err)
	svc, err := services.NewRoleService(db, audit)
	require.NoError(t, err)

	role, err := svc.Create(context.Background(), services.CreateRoleInput{Name: "Retouchers"})
	require.NoError(t, err)

	name := "Post-Production"
	updated, err := svc.Update(context.Background(), role.ID, services.UpdateRoleInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Post-Production", updated.Name)

	var logs []models.AuditLog
	require.NoError(t, db.Where("action = ?", "role.update").Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Contains(t, string(logs[0].Details), "Post-Production")
	require.NotContains(t, string(logs[0].Details), "Retouchers")
}

func TestRoleDeleteClearsGrantsAndAssignments(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewRoleService(db, nil)
	require.NoError(t, err)

	createPermission(t, db, "packages.manage")
	role, err := svc.Create(context.Background(), services.CreateRoleInput{
		Name:           "Sales",
		PermissionKeys: []string{"packages.manage"},
	})
	require.NoError(t, err)

	user := createUser(t, db, "sales@example.com")
	require.NoError(t, db.Model(&user).Association("Roles").Append(&role))

	require.NoError(t, svc.Delete(context.Background(), role.ID))

	_, err = svc.Get(context.Background(), role.ID)
	require.ErrorIs(t, err, services.ErrRoleNotFound)

	require.Zero(t, pivotCount(t, db, "role_permissions", "role_id", role.ID))
	require.Zero(t, pivotCount(t, db, "user_roles", "role_id", role.ID))
}
