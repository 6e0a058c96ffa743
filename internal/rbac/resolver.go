package rbac

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/models"
)

// ErrUserNotFound reports that the subject of a resolution does not exist.
var ErrUserNotFound = errors.New("rbac: user not found")

// Resolver computes effective permission sets from grant state. It holds no
// state of its own; every call reads the current grants, so a revocation is
// visible on the next check.
type Resolver struct {
	db *gorm.DB
}

// NewResolver constructs a resolver backed by the provided database.
func NewResolver(db *gorm.DB) (*Resolver, error) {
	if db == nil {
		return nil, errors.New("rbac: db is required")
	}
	return &Resolver{db: db}, nil
}

// Resolve returns the user's effective permission keys: the union of every
// assigned role's permissions and the user's direct permissions, deduplicated
// by permission identity and sorted. Roles and direct grants are prefetched in
// one pass; resolution never issues per-permission queries.
func (r *Resolver) Resolve(ctx context.Context, userID string) ([]string, error) {
	user, err := r.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string)
	for _, role := range user.Roles {
		for _, perm := range role.Permissions {
			seen[perm.ID] = perm.Key
		}
	}
	for _, perm := range user.DirectPermissions {
		seen[perm.ID] = perm.Key
	}

	keys := make([]string, 0, len(seen))
	for _, key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// HasRole reports whether the user holds at least one of the named roles.
// This is an existence query against the role grants, deliberately cheaper
// than a full Resolve.
func (r *Resolver) HasRole(ctx context.Context, userID string, names ...string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, errors.New("rbac: user id is required")
	}
	if len(names) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND roles.name IN ?", userID, names).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("rbac: role check: %w", err)
	}
	return count > 0, nil
}

// HasAnyPermission reports whether the user's effective permission set
// intersects the supplied keys.
func (r *Resolver) HasAnyPermission(ctx context.Context, userID string, keys ...string) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}

	effective, err := r.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}

	held := make(map[string]struct{}, len(effective))
	for _, key := range effective {
		held[key] = struct{}{}
	}
	for _, key := range keys {
		if _, ok := held[key]; ok {
			return true, nil
		}
	}
	return false, nil
}

// RoleNames returns the names of the user's assigned roles.
func (r *Resolver) RoleNames(ctx context.Context, userID string) ([]string, error) {
	user, err := r.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		names = append(names, role.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Resolver) loadUser(ctx context.Context, userID string) (*models.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("rbac: user id is required")
	}

	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Preload("DirectPermissions").
		First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("rbac: load user: %w", err)
	}
	return &user, nil
}
