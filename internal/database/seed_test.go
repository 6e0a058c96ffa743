package database_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lensfolio/backoffice/internal/database"
	"github.com/lensfolio/backoffice/internal/database/testutil"
	"github.com/lensfolio/backoffice/internal/models"
	"github.com/lensfolio/backoffice/internal/rbac"
)

func TestSeedCreatesCatalogAndStockRoles(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	var permCount int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&permCount).Error)
	require.EqualValues(t, len(rbac.Catalog()), permCount)

	var roleCount int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roleCount).Error)
	require.EqualValues(t, len(rbac.DefaultRoles()), roleCount)
}

func TestSeedGrantsSuperAdminFullCatalog(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	var role models.Role
	require.NoError(t, db.Preload("Permissions").
		First(&role, "name = ?", rbac.RoleSuperAdmin).Error)
	require.Len(t, role.Permissions, len(rbac.Catalog()))
}

func TestSeedIsIdempotentAndKeepsAdminGrants(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	// An operator adds a custom permission and grants it to a stock role.
	custom := models.Permission{Key: "custom.thing", Name: "Custom", Module: "custom"}
	require.NoError(t, db.Create(&custom).Error)

	var viewer models.Role
	require.NoError(t, db.First(&viewer, "name = ?", rbac.RoleViewer).Error)
	require.NoError(t, db.Model(&viewer).Association("Permissions").Append(&custom))

	require.NoError(t, database.SeedData(db))

	var permCount int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&permCount).Error)
	require.EqualValues(t, len(rbac.Catalog())+1, permCount)

	var roleCount int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roleCount).Error)
	require.EqualValues(t, len(rbac.DefaultRoles()), roleCount)

	// The custom grant survives the re-seed.
	require.NoError(t, db.Preload("Permissions").First(&viewer, "id = ?", viewer.ID).Error)
	keys := make([]string, 0, len(viewer.Permissions))
	for _, perm := range viewer.Permissions {
		keys = append(keys, perm.Key)
	}
	require.Contains(t, keys, "custom.thing")
}
