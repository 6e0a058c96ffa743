package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/database/testutil"
	"github.com/lensfolio/backoffice/internal/models"
	"github.com/lensfolio/backoffice/internal/rbac"
)

func seedPermission(t *testing.T, db *gorm.DB, key string) models.Permission {
	t.Helper()
	perm := models.Permission{Key: key, Name: key, Module: "test"}
	require.NoError(t, db.Create(&perm).Error)
	return perm
}

func seedRole(t *testing.T, db *gorm.DB, name string, perms ...models.Permission) models.Role {
	t.Helper()
	role := models.Role{Name: name, Permissions: perms}
	require.NoError(t, db.Create(&role).Error)
	return role
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: email, Email: email, Password: "x", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestResolveUnionsRolesAndDirectGrants(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	resolver, err := rbac.NewResolver(db)
	require.NoError(t, err)

	view := seedPermission(t, db, "projects.view")
	manage := seedPermission(t, db, "projects.manage")
	upload := seedPermission(t, db, "files.upload")

	editor := seedRole(t, db, "Editor", view, manage)
	user := seedUser(t, db, "editor@example.com")
	require.NoError(t, db.Model(&user).Association("Roles").Append(&editor))
	require.NoError(t, db.Model(&user).Association("DirectPermissions").Append(&upload))

	keys, err := resolver.Resolve(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"files.upload", "projects.manage", "projects.view"}, keys)
}

func TestResolveDeduplicatesOverlappingGrants(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	resolver, err := rbac.NewResolver(db)
	require.NoError(t, err)

	view := seedPermission(t, db, "clients.view")
	roleA := seedRole(t, db, "RoleA", view)
	roleB := seedRole(t, db, "RoleB", view)

	user := seedUser(t, db, "overlap@example.com")
	require.NoError(t, db.Model(&user).Association("Roles").Append(&roleA, &roleB))
	require.NoError(t, db.Model(&user).Association("DirectPermissions").Append(&view))

	keys, err := resolver.Resolve(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"clients.view"}, keys)
}

func TestResolveSurvivesRoleRemovalWhenDirectGrantRemains(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	resolver, err := rbac.NewResolver(db)
	require.NoError(t, err)

	view := seedPermission(t, db, "reports.view")
	role := seedRole(t, db, "Analyst", view)

	user := seedUser(t, db, "analyst@example.com")
	require.NoError(t, db.Model(&user).Association("Roles").Append(&role))
	require.NoError(t, db.Model(&user).Association("DirectPermissions").Append(&view))

	require.NoError(t, db.Model(&user).Association("Roles").Delete(&role))

	keys, err := resolver.Resolve(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"reports.view"}, keys)

	// Dropping the direct grant too leaves the user with nothing.
	require.NoError(t, db.Model(&user).Association("DirectPermissions").Delete(&view))
	keys, err = resolver.Resolve(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestResolveUnknownUser(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	resolver, err := rbac.NewResolver(db)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, rbac.ErrUserNotFound)
}

func TestHasRole(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	resolver, err := rbac.NewResolver(db)
	require.NoError(t, err)

	admin := seedRole(t, db, "Admin")
	user := seedUser(t, db, "admin@example.com")
	require.NoError(t, db.Model(&user).Association("Roles").Append(&admin))

	ok, err := resolver.HasRole(context.Background(), user.ID, "Admin")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = resolver.HasRole(context.Background(), user.ID, "SuperAdmin", "Admin")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = resolver.HasRole(context.Background(), user.ID, "SuperAdmin")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = resolver.HasRole(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasAnyPermission(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	resolver, err := rbac.NewResolver(db)
	require.NoError(t, err)

	manage := seedPermission(t, db, "branches.manage")
	user := seedUser(t, db, "branch@example.com")
	require.NoError(t, db.Model(&user).Association("DirectPermissions").Append(&manage))

	ok, err := resolver.HasAnyPermission(context.Background(), user.ID, "branches.view", "branches.manage")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = resolver.HasAnyPermission(context.Background(), user.ID, "branches.view")
	require.NoError(t, err)
	require.False(t, ok)
}
