package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/database/testutil"
	"github.com/lensfolio/backoffice/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
}

func createPermission(t *testing.T, db *gorm.DB, key string) models.Permission {
	t.Helper()
	perm := models.Permission{Key: key, Name: key, Module: "test"}
	require.NoError(t, db.Create(&perm).Error)
	return perm
}

func createRole(t *testing.T, db *gorm.DB, name string, perms ...models.Permission) models.Role {
	t.Helper()
	role := models.Role{Name: name, Permissions: perms}
	require.NoError(t, db.Create(&role).Error)
	return role
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: email, Email: email, Password: "hashed", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func pivotCount(t *testing.T, db *gorm.DB, table, column, id string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Table(table).Where(column+" = ?", id).Count(&count).Error)
	return count
}

func permissionKeys(role *models.Role) []string {
	keys := make([]string, 0, len(role.Permissions))
	for _, perm := range role.Permissions {
		keys = append(keys, perm.Key)
	}
	return keys
}
