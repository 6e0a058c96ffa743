package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lensfolio/backoffice/internal/models"
	apperrors "github.com/lensfolio/backoffice/pkg/errors"
)

var (
	// ErrPermissionNotFound indicates the requested permission does not exist.
	ErrPermissionNotFound = apperrors.New("PERMISSION_NOT_FOUND", "Permission not found", http.StatusNotFound)
	// ErrDuplicatePermissionKey signals a uniqueness violation on the permission key.
	ErrDuplicatePermissionKey = apperrors.New("DUPLICATE_PERMISSION_KEY", "Permission key already exists", http.StatusConflict)
)

// CreatePermissionInput describes the fields accepted when registering a permission.
type CreatePermissionInput struct {
	Key    string
	Name   string
	Module string
}

// UpdatePermissionInput enumerates mutable permission attributes.
type UpdatePermissionInput struct {
	Key    *string
	Name   *string
	Module *string
}

// PermissionFilters captures listing filters.
type PermissionFilters struct {
	Module string
}

// PermissionService manages the permission registry.
type PermissionService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewPermissionService constructs a PermissionService instance.
func NewPermissionService(db *gorm.DB, auditService *AuditService) (*PermissionService, error) {
	if db == nil {
		return nil, errors.New("permission service: db is required")
	}
	return &PermissionService{db: db, auditService: auditService}, nil
}

// List returns permissions ordered by module then key, optionally filtered by module.
func (s *PermissionService) List(ctx context.Context, filters PermissionFilters) ([]models.Permission, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Permission{})
	if module := strings.TrimSpace(filters.Module); module != "" {
		query = query.Where("module = ?", module)
	}

	// Column expressions so the dialect quotes "key", a reserved word on MySQL.
	var permissions []models.Permission
	if err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "module"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
		Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("permission service: list permissions: %w", err)
	}
	return permissions, nil
}

// Get fetches a permission by id.
func (s *PermissionService) Get(ctx context.Context, id string) (*models.Permission, error) {
	ctx = ensureContext(ctx)

	var permission models.Permission
	if err := s.db.WithContext(ctx).First(&permission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("permission service: get permission: %w", err)
	}
	return &permission, nil
}

// Create registers a new permission with a unique key.
func (s *PermissionService) Create(ctx context.Context, input CreatePermissionInput) (*models.Permission, error) {
	ctx = ensureContext(ctx)

	key := strings.TrimSpace(input.Key)
	name := strings.TrimSpace(input.Name)
	if key == "" {
		return nil, apperrors.NewBadRequest("permission key is required")
	}
	if name == "" {
		return nil, apperrors.NewBadRequest("permission name is required")
	}

	permission := &models.Permission{
		Key:    key,
		Name:   name,
		Module: strings.TrimSpace(input.Module),
	}
	if permission.Module == "" {
		permission.Module = moduleFromKey(key)
	}

	if err := s.db.WithContext(ctx).Create(permission).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicatePermissionKey
		}
		return nil, fmt.Errorf("permission service: create permission: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "permission.create",
		Resource: "permission:" + permission.ID,
		Result:   "success",
		Details:  map[string]any{"key": permission.Key},
	})

	return permission, nil
}

// Update mutates an existing permission.
func (s *PermissionService) Update(ctx context.Context, id string, input UpdatePermissionInput) (*models.Permission, error) {
	ctx = ensureContext(ctx)

	permission, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Key != nil {
		key := strings.TrimSpace(*input.Key)
		if key == "" {
			return nil, apperrors.NewBadRequest("permission key cannot be empty")
		}
		updates["key"] = key
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewBadRequest("permission name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Module != nil {
		updates["module"] = strings.TrimSpace(*input.Module)
	}

	if len(updates) == 0 {
		return permission, nil
	}

	if err := s.db.WithContext(ctx).Model(permission).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicatePermissionKey
		}
		return nil, fmt.Errorf("permission service: update permission: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "permission.update",
		Resource: "permission:" + permission.ID,
		Result:   "success",
		Details:  map[string]any{"key": permission.Key},
	})

	return permission, nil
}

// Delete removes a permission and clears every role and user grant that
// references it, in one transaction.
func (s *PermissionService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	permission, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(permission).Association("Roles").Clear(); err != nil {
			return fmt.Errorf("clear role grants: %w", err)
		}
		if err := tx.Model(permission).Association("Users").Clear(); err != nil {
			return fmt.Errorf("clear user grants: %w", err)
		}
		return tx.Delete(permission).Error
	})
	if err != nil {
		return fmt.Errorf("permission service: delete permission: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "permission.delete",
		Resource: "permission:" + permission.ID,
		Result:   "success",
		Details:  map[string]any{"key": permission.Key},
	})

	return nil
}

// moduleFromKey derives a module name from a dotted permission key.
func moduleFromKey(key string) string {
	if idx := strings.Index(key, "."); idx > 0 {
		return key[:idx]
	}
	return key
}
