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

// ErrCategoryNotFound indicates the requested category does not exist.
var ErrCategoryNotFound = apperrors.New("CATEGORY_NOT_FOUND", "Category not found", http.StatusNotFound)

// CategoryInput describes the fields accepted when creating or updating a
// category. A non-empty ParentID makes it a subcategory.
type CategoryInput struct {
	Name     string
	ParentID *string
}

// CategoryService manages the category tree for packages and clothes.
type CategoryService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewCategoryService constructs a CategoryService instance.
func NewCategoryService(db *gorm.DB, auditService *AuditService) (*CategoryService, error) {
	if db == nil {
		return nil, errors.New("category service: db is required")
	}
	return &CategoryService{db: db, auditService: auditService}, nil
}

// List returns all categories with their parent preloaded.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	ctx = ensureContext(ctx)

	var categories []models.Category
	if err := s.db.WithContext(ctx).
		Preload("Parent").
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("category service: list categories: %w", err)
	}
	return categories, nil
}

// Get fetches a category by id.
func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	ctx = ensureContext(ctx)

	var category models.Category
	if err := s.db.WithContext(ctx).
		Preload("Parent").
		First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("category service: get category: %w", err)
	}
	return &category, nil
}

// Create persists a new category, validating the parent when supplied.
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("category name is required")
	}

	category := &models.Category{Name: name}
	if input.ParentID != nil && strings.TrimSpace(*input.ParentID) != "" {
		parentID := strings.TrimSpace(*input.ParentID)
		if _, err := s.Get(ctx, parentID); err != nil {
			return nil, err
		}
		category.ParentID = &parentID
	}

	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("category service: create category: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "category.create",
		Resource: "category:" + category.ID,
		Result:   "success",
		Details:  map[string]any{"name": category.Name},
	})

	return category, nil
}

// Update mutates an existing category. A category cannot become its own
// parent.
func (s *CategoryService) Update(ctx context.Context, id string, input CategoryInput) (*models.Category, error) {
	ctx = ensureContext(ctx)

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("category name is required")
	}

	updates := map[string]any{"name": name}
	if input.ParentID != nil {
		parentID := strings.TrimSpace(*input.ParentID)
		if parentID == "" {
			updates["parent_id"] = nil
		} else {
			if parentID == category.ID {
				return nil, apperrors.NewBadRequest("category cannot be its own parent")
			}
			if _, err := s.Get(ctx, parentID); err != nil {
				return nil, err
			}
			updates["parent_id"] = parentID
		}
	}

	if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("category service: update category: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "category.update",
		Resource: "category:" + category.ID,
		Result:   "success",
	})

	return s.Get(ctx, category.ID)
}

// Delete removes a category and detaches its subcategories.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	category, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).
			Where("parent_id = ?", category.ID).
			Update("parent_id", nil).Error; err != nil {
			return fmt.Errorf("detach subcategories: %w", err)
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return fmt.Errorf("category service: delete category: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "category.delete",
		Resource: "category:" + category.ID,
		Result:   "success",
		Details:  map[string]any{"name": category.Name},
	})

	return nil
}
