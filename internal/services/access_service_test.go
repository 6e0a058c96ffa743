package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/rbac"
	"github.com/lensfolio/backoffice/internal/services"
)

func newAccessService(t *testing.T, db *gorm.DB) *services.AccessService {
	t.Helper()
	resolver, err := rbac.NewResolver(db)
	require.NoError(t, err)
	svc, err := services.NewAccessService(db, resolver, nil)
	require.NoError(t, err)
	return svc
}

func TestUserAccessProfile(t *testing.T) {
	db := openTestDB(t)
	svc := newAccessService(t, db)

	view := createPermission(t, db, "projects.view")
	upload := createPermission(t, db, "files.upload")
	editor := createRole(t, db, "Editor", view)

	user := createUser(t, db, "editor@example.com")
	require.NoError(t, svc.AssignRole(context.Background(), user.ID, editor.ID))
	require.NoError(t, svc.GrantPermission(context.Background(), user.ID, upload.ID))

	access, err := svc.UserAccess(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, access.Roles, 1)
	require.Len(t, access.DirectPermissions, 1)
	require.Equal(t, []string{"files.upload", "projects.view"}, access.EffectiveKeys)
}

func TestAssignRoleIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := newAccessService(t, db)

	role := createRole(t, db, "Viewer")
	user := createUser(t, db, "viewer@example.com")

	require.NoError(t, svc.AssignRole(context.Background(), user.ID, role.ID))
	require.NoError(t, svc.AssignRole(context.Background(), user.ID, role.ID))

	require.EqualValues(t, 1, pivotCount(t, db, "user_roles", "user_id", user.ID))
}

func TestRemoveRoleLeavesDirectGrantsIntact(t *testing.T) {
	db := openTestDB(t)
	svc := newAccessService(t, db)

	view := createPermission(t, db, "reports.view")
	role := createRole(t, db, "Analyst", view)

	user := createUser(t, db, "analyst@example.com")
	require.NoError(t, svc.AssignRole(context.Background(), user.ID, role.ID))
	require.NoError(t, svc.GrantPermission(context.Background(), user.ID, view.ID))

	require.NoError(t, svc.RemoveRole(context.Background(), user.ID, role.ID))

	access, err := svc.UserAccess(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, access.Roles)
	require.Equal(t, []string{"reports.view"}, access.EffectiveKeys)

	// Removing an unheld role is a no-op.
	require.NoError(t, svc.RemoveRole(context.Background(), user.ID, role.ID))
}

func TestGrantPermissionIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := newAccessService(t, db)

	perm := createPermission(t, db, "clients.manage")
	user := createUser(t, db, "front@example.com")

	require.NoError(t, svc.GrantPermission(context.Background(), user.ID, perm.ID))
	require.NoError(t, svc.GrantPermission(context.Background(), user.ID, perm.ID))

	require.EqualValues(t, 1, pivotCount(t, db, "user_permissions", "user_id", user.ID))
}

func TestRevokePermissionLeavesRoleGrantsIntact(t *testing.T) {
	db := openTestDB(t)
	svc := newAccessService(t, db)

	view := createPermission(t, db, "branches.view")
	role := createRole(t, db, "BranchViewer", view)

	user := createUser(t, db, "branch@example.com")
	require.NoError(t, svc.AssignRole(context.Background(), user.ID, role.ID))
	require.NoError(t, svc.GrantPermission(context.Background(), user.ID, view.ID))

	require.NoError(t, svc.RevokePermission(context.Background(), user.ID, view.ID))

	// The role-derived path still supplies the key.
	access, err := svc.UserAccess(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, access.DirectPermissions)
	require.Equal(t, []string{"branches.view"}, access.EffectiveKeys)

	// Revoking an absent grant is a no-op.
	require.NoError(t, svc.RevokePermission(context.Background(), user.ID, view.ID))
}

func TestAccessServiceUnknownSubjects(t *testing.T) {
	db := openTestDB(t)
	svc := newAccessService(t, db)

	role := createRole(t, db, "Any")
	user := createUser(t, db, "real@example.com")

	require.ErrorIs(t, svc.AssignRole(context.Background(), "missing", role.ID), services.ErrUserNotFound)
	require.ErrorIs(t, svc.AssignRole(context.Background(), user.ID, "missing"), services.ErrRoleNotFound)
	require.ErrorIs(t, svc.GrantPermission(context.Background(), user.ID, "missing"), services.ErrPermissionNotFound)

	_, err := svc.UserAccess(context.Background(), "missing")
	require.ErrorIs(t, err, services.ErrUserNotFound)
}
