package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/models"
	apperrors "github.com/lensfolio/backoffice/pkg/errors"
)

var (
	// ErrRoleNotFound indicates the requested role does not exist.
	ErrRoleNotFound = apperrors.New("ROLE_NOT_FOUND", "Role not found", http.StatusNotFound)
	// ErrDuplicateRoleName signals a uniqueness violation on the role name.
	ErrDuplicateRoleName = apperrors.New("DUPLICATE_ROLE_NAME", "Role name already exists", http.StatusConflict)
	// ErrUnknownPermission is returned when a referenced permission key does not exist.
	ErrUnknownPermission = apperrors.New("UNKNOWN_PERMISSION", "One or more permission keys do not exist", http.StatusBadRequest)
)

// CreateRoleInput describes the fields accepted when creating a role.
type CreateRoleInput struct {
	Name           string
	Description    string
	PermissionKeys []string
}

// UpdateRoleInput enumerates mutable role attributes. A non-nil
// PermissionKeys replaces the role's full permission set.
type UpdateRoleInput struct {
	Name           *string
	Description    *string
	PermissionKeys *[]string
}

// RoleService manages roles and their permission sets.
type RoleService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewRoleService constructs a RoleService instance.
func NewRoleService(db *gorm.DB, auditService *AuditService) (*RoleService, error) {
	if db == nil {
		return nil, errors.New("role service: db is required")
	}
	return &RoleService{db: db, auditService: auditService}, nil
}

// List returns all roles with their permissions preloaded.
func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	ctx = ensureContext(ctx)

	var roles []models.Role
	if err := s.db.WithContext(ctx).
		Preload("Permissions").
		Order("name ASC").
		Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("role service: list roles: %w", err)
	}
	return roles, nil
}

// Get fetches a role by id with its permissions preloaded.
func (s *RoleService) Get(ctx context.Context, id string) (*models.Role, error) {
	ctx = ensureContext(ctx)

	var role models.Role
	if err := s.db.WithContext(ctx).
		Preload("Permissions").
		First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("role service: get role: %w", err)
	}
	return &role, nil
}

// Create persists a new role. When permission keys are supplied, every key
// must exist; otherwise nothing is created.
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (*models.Role, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("role name is required")
	}

	keys := normaliseKeys(input.PermissionKeys)

	role := &models.Role{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		permissions, err := resolvePermissionKeys(tx, keys)
		if err != nil {
			return err
		}

		if err := tx.Create(role).Error; err != nil {
			return err
		}

		if len(permissions) > 0 {
			if err := tx.Model(role).Association("Permissions").Replace(permissions); err != nil {
				return fmt.Errorf("attach permissions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateRoleName
		}
		return nil, fmt.Errorf("role service: create role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.create",
		Resource: "role:" + role.ID,
		Result:   "success",
		Details:  map[string]any{"name": role.Name, "permission_keys": keys},
	})

	return s.Get(ctx, role.ID)
}

// Update mutates a role. A non-nil PermissionKeys performs an atomic replace
// of the role's permission set; keys absent from the registry abort the whole
// update.
func (s *RoleService) Update(ctx context.Context, id string, input UpdateRoleInput) (*models.Role, error) {
	ctx = ensureContext(ctx)

	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return apperrors.NewBadRequest("role name cannot be empty")
			}
			updates["name"] = name
		}
		if input.Description != nil {
			updates["description"] = strings.TrimSpace(*input.Description)
		}

		if len(updates) > 0 {
			if err := tx.Model(role).Updates(updates).Error; err != nil {
				return err
			}
		}

		if input.PermissionKeys != nil {
			permissions, err := resolvePermissionKeys(tx, normaliseKeys(*input.PermissionKeys))
			if err != nil {
				return err
			}
			if err := tx.Model(role).Association("Permissions").Replace(permissions); err != nil {
				return fmt.Errorf("replace permissions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateRoleName
		}
		return nil, fmt.Errorf("role service: update role: %w", err)
	}

	updated, err := s.Get(ctx, role.ID)
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.update",
		Resource: "role:" + role.ID,
		Result:   "success",
		Details:  map[string]any{"name": updated.Name},
	})

	return updated, nil
}

// Delete removes a role and clears its permission grants and user
// assignments, in one transaction.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	role, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(role).Association("Permissions").Clear(); err != nil {
			return fmt.Errorf("clear permission grants: %w", err)
		}
		if err := tx.Model(role).Association("Users").Clear(); err != nil {
			return fmt.Errorf("clear user assignments: %w", err)
		}
		return tx.Delete(role).Error
	})
	if err != nil {
		return fmt.Errorf("role service: delete role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.delete",
		Resource: "role:" + role.ID,
		Result:   "success",
		Details:  map[string]any{"name": role.Name},
	})

	return nil
}

// AssignPermissions attaches the supplied permission keys to the role without
// detaching existing ones. All keys must exist or nothing is attached.
func (s *RoleService) AssignPermissions(ctx context.Context, id string, permissionKeys []string) (*models.Role, error) {
	ctx = ensureContext(ctx)

	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	keys := normaliseKeys(permissionKeys)
	if len(keys) == 0 {
		return role, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		permissions, err := resolvePermissionKeys(tx, keys)
		if err != nil {
			return err
		}
		if err := tx.Model(role).Association("Permissions").Append(permissions); err != nil {
			return fmt.Errorf("append permissions: %w", err)
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("role service: assign permissions: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.permissions.assign",
		Resource: "role:" + role.ID,
		Result:   "success",
		Details:  map[string]any{"permission_keys": keys},
	})

	return s.Get(ctx, role.ID)
}

// RevokePermission detaches one permission from the role. Detaching a
// permission the role does not hold is a no-op.
func (s *RoleService) RevokePermission(ctx context.Context, id, permissionID string) (*models.Role, error) {
	ctx = ensureContext(ctx)

	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var permission models.Permission
	if err := s.db.WithContext(ctx).First(&permission, "id = ?", permissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("role service: load permission: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(role).Association("Permissions").Delete(&permission); err != nil {
		return nil, fmt.Errorf("role service: revoke permission: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.permissions.revoke",
		Resource: "role:" + role.ID,
		Result:   "success",
		Details:  map[string]any{"permission_key": permission.Key},
	})

	return s.Get(ctx, role.ID)
}

// resolvePermissionKeys loads permissions by key and fails when any key is
// missing from the registry.
func resolvePermissionKeys(tx *gorm.DB, keys []string) ([]models.Permission, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	// Map condition so the dialect quotes "key", a reserved word on MySQL.
	var permissions []models.Permission
	if err := tx.Where(map[string]any{"key": keys}).Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	if len(permissions) != len(keys) {
		return nil, ErrUnknownPermission
	}
	return permissions, nil
}
