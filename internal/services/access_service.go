package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/models"
	"github.com/lensfolio/backoffice/internal/rbac"
	apperrors "github.com/lensfolio/backoffice/pkg/errors"
)

// ErrUserNotFound indicates the requested user does not exist.
var ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)

// UserAccess is the authorization profile of a single user: their assigned
// roles, directly granted permissions, and the resolved effective keys.
type UserAccess struct {
	User              models.User         `json:"user"`
	Roles             []models.Role       `json:"roles"`
	DirectPermissions []models.Permission `json:"direct_permissions"`
	EffectiveKeys     []string            `json:"effective_permissions"`
}

// AccessService manages per-user role assignments and direct permission grants.
type AccessService struct {
	db           *gorm.DB
	resolver     *rbac.Resolver
	auditService *AuditService
}

// NewAccessService constructs an AccessService instance.
func NewAccessService(db *gorm.DB, resolver *rbac.Resolver, auditService *AuditService) (*AccessService, error) {
	if db == nil {
		return nil, errors.New("access service: db is required")
	}
	if resolver == nil {
		return nil, errors.New("access service: resolver is required")
	}
	return &AccessService{db: db, resolver: resolver, auditService: auditService}, nil
}

// UserAccess returns the authorization profile for one user.
func (s *AccessService) UserAccess(ctx context.Context, userID string) (*UserAccess, error) {
	ctx = ensureContext(ctx)

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	keys, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("access service: resolve permissions: %w", err)
	}

	return &UserAccess{
		User:              *user,
		Roles:             user.Roles,
		DirectPermissions: user.DirectPermissions,
		EffectiveKeys:     keys,
	}, nil
}

// AssignRole attaches a role to a user. Assigning an already-held role is a
// no-op.
func (s *AccessService) AssignRole(ctx context.Context, userID, roleID string) error {
	ctx = ensureContext(ctx)

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("access service: load role: %w", err)
	}

	for _, held := range user.Roles {
		if held.ID == role.ID {
			return nil
		}
	}

	if err := s.db.WithContext(ctx).Model(user).Association("Roles").Append(&role); err != nil {
		return fmt.Errorf("access service: assign role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &user.ID,
		Action:   "user.roles.assign",
		Resource: "user:" + user.ID,
		Result:   "success",
		Details:  map[string]any{"role": role.Name},
	})

	return nil
}

// RemoveRole detaches a role from a user. Removing a role the user does not
// hold is a no-op, and direct permission grants are untouched.
func (s *AccessService) RemoveRole(ctx context.Context, userID, roleID string) error {
	ctx = ensureContext(ctx)

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("access service: load role: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(user).Association("Roles").Delete(&role); err != nil {
		return fmt.Errorf("access service: remove role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &user.ID,
		Action:   "user.roles.remove",
		Resource: "user:" + user.ID,
		Result:   "success",
		Details:  map[string]any{"role": role.Name},
	})

	return nil
}

// GrantPermission attaches a direct permission to a user. Granting an
// already-held permission is a no-op.
func (s *AccessService) GrantPermission(ctx context.Context, userID, permissionID string) error {
	ctx = ensureContext(ctx)

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	var permission models.Permission
	if err := s.db.WithContext(ctx).First(&permission, "id = ?", permissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPermissionNotFound
		}
		return fmt.Errorf("access service: load permission: %w", err)
	}

	for _, held := range user.DirectPermissions {
		if held.ID == permission.ID {
			return nil
		}
	}

	if err := s.db.WithContext(ctx).Model(user).Association("DirectPermissions").Append(&permission); err != nil {
		return fmt.Errorf("access service: grant permission: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &user.ID,
		Action:   "user.permissions.grant",
		Resource: "user:" + user.ID,
		Result:   "success",
		Details:  map[string]any{"permission": permission.Key},
	})

	return nil
}

// RevokePermission detaches a direct permission from a user. Revoking an
// absent grant is a no-op; role-derived permissions are unaffected.
func (s *AccessService) RevokePermission(ctx context.Context, userID, permissionID string) error {
	ctx = ensureContext(ctx)

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	var permission models.Permission
	if err := s.db.WithContext(ctx).First(&permission, "id = ?", permissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPermissionNotFound
		}
		return fmt.Errorf("access service: load permission: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(user).Association("DirectPermissions").Delete(&permission); err != nil {
		return fmt.Errorf("access service: revoke permission: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &user.ID,
		Action:   "user.permissions.revoke",
		Resource: "user:" + user.ID,
		Result:   "success",
		Details:  map[string]any{"permission": permission.Key},
	})

	return nil
}

func (s *AccessService) loadUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("Roles").
		Preload("DirectPermissions").
		First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("access service: load user: %w", err)
	}
	return &user, nil
}
