package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/services"
)

func newPermissionService(t *testing.T) (*services.PermissionService, *gorm.DB) {
	t.Helper()

	db := openTestDB(t)
	svc, err := services.NewPermissionService(db, nil)
	require.NoError(t, err)
	return svc, db
}

func TestPermissionCreateDerivesModuleFromKey(t *testing.T) {
	svc, _ := newPermissionService(t)

	perm, err := svc.Create(context.Background(), services.CreatePermissionInput{
		Key:  "projects.manage",
		Name: "Manage projects",
	})
	require.NoError(t, err)
	require.Equal(t, "projects", perm.Module)

	explicit, err := svc.Create(context.Background(), services.CreatePermissionInput{
		Key:    "exports.run",
		Name:   "Run exports",
		Module: "reporting",
	})
	require.NoError(t, err)
	require.Equal(t, "reporting", explicit.Module)
}

func TestPermissionCreateRejectsDuplicateKey(t *testing.T) {
	svc, _ := newPermissionService(t)

	_, err := svc.Create(context.Background(), services.CreatePermissionInput{
		Key:  "projects.view",
		Name: "View projects",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), services.CreatePermissionInput{
		Key:  "projects.view",
		Name: "View projects again",
	})
	require.ErrorIs(t, err, services.ErrDuplicatePermissionKey)
}

func TestPermissionListFiltersByModule(t *testing.T) {
	svc, _ := newPermissionService(t)

	for _, key := range []string{"projects.view", "projects.manage", "clients.view"} {
		_, err := svc.Create(context.Background(), services.CreatePermissionInput{Key: key, Name: key})
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background(), services.PermissionFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	projects, err := svc.List(context.Background(), services.PermissionFilters{Module: "projects"})
	require.NoError(t, err)
	require.Len(t, projects, 2)
	for _, perm := range projects {
		require.Equal(t, "projects", perm.Module)
	}
}

func TestPermissionUpdate(t *testing.T) {
	svc, _ := newPermissionService(t)

	perm, err := svc.Create(context.Background(), services.CreatePermissionInput{
		Key:  "files.upload",
		Name: "Upload files",
	})
	require.NoError(t, err)

	name := "Upload project files"
	updated, err := svc.Update(context.Background(), perm.ID, services.UpdatePermissionInput{Name: &name})
	require.NoError(t, err)

	fetched, err := svc.Get(context.Background(), updated.ID)
	require.NoError(t, err)
	require.Equal(t, "Upload project files", fetched.Name)
	require.Equal(t, "files.upload", fetched.Key)

	_, err = svc.Update(context.Background(), "missing", services.UpdatePermissionInput{Name: &name})
	require.ErrorIs(t, err, services.ErrPermissionNotFound)
}

func TestPermissionDeleteClearsGrants(t *testing.T) {
	svc, db := newPermissionService(t)

	perm := createPermission(t, db, "reports.view")
	role := createRole(t, db, "Analyst", perm)
	user := createUser(t, db, "analyst@studio.test")
	require.NoError(t, db.Model(&user).Association("DirectPermissions").Append(&perm))

	require.NoError(t, svc.Delete(context.Background(), perm.ID))

	require.Zero(t, pivotCount(t, db, "role_permissions", "permission_id", perm.ID))
	require.Zero(t, pivotCount(t, db, "user_permissions", "permission_id", perm.ID))
	require.Equal(t, int64(1), pivotCount(t, db, "roles", "id", role.ID))

	_, err := svc.Get(context.Background(), perm.ID)
	require.ErrorIs(t, err, services.ErrPermissionNotFound)
}
