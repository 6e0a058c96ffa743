package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/models"
	"github.com/lensfolio/backoffice/internal/rbac"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.AuditLog{},
		&models.Branch{},
		&models.Client{},
		&models.Category{},
		&models.Package{},
		&models.Cloth{},
		&models.Reservation{},
		&models.Project{},
		&models.ProductionTask{},
		&models.ProjectFile{},
	)
}

// SeedData upserts the permission catalog and stock roles. Existing grants
// are left untouched: re-running the seed refreshes names/modules and role
// baselines without revoking anything an admin granted since.
func SeedData(db *gorm.DB) error {
	byKey := make(map[string]models.Permission)

	for _, def := range rbac.Catalog() {
		var perm models.Permission
		err := db.Where(models.Permission{Key: def.Key}).
			Attrs(models.Permission{Name: def.Name, Module: def.Module}).
			FirstOrCreate(&perm).Error
		if err != nil {
			return fmt.Errorf("seed permission %s: %w", def.Key, err)
		}
		byKey[def.Key] = perm
	}

	for _, seed := range rbac.DefaultRoles() {
		var role models.Role
		err := db.Where(models.Role{Name: seed.Name}).
			Attrs(models.Role{Description: seed.Description}).
			FirstOrCreate(&role).Error
		if err != nil {
			return fmt.Errorf("seed role %s: %w", seed.Name, err)
		}

		keys := seed.PermissionKeys
		if keys == nil {
			keys = make([]string, 0, len(byKey))
			for key := range byKey {
				keys = append(keys, key)
			}
		}

		var held []models.Permission
		if err := db.Model(&role).Association("Permissions").Find(&held); err != nil {
			return fmt.Errorf("seed role %s: load grants: %w", seed.Name, err)
		}
		heldIDs := make(map[string]struct{}, len(held))
		for _, perm := range held {
			heldIDs[perm.ID] = struct{}{}
		}

		var missing []models.Permission
		for _, key := range keys {
			perm, ok := byKey[key]
			if !ok {
				return fmt.Errorf("seed role %s: permission %q not in catalog", seed.Name, key)
			}
			if _, exists := heldIDs[perm.ID]; !exists {
				missing = append(missing, perm)
			}
		}

		if len(missing) > 0 {
			if err := db.Model(&role).Association("Permissions").Append(missing); err != nil {
				return fmt.Errorf("seed role %s permissions: %w", seed.Name, err)
			}
		}
	}

	return nil
}
