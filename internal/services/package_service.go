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

// ErrPackageNotFound indicates the requested package does not exist.
var ErrPackageNotFound = apperrors.New("PACKAGE_NOT_FOUND", "Package not found", http.StatusNotFound)

// PackageInput describes the fields accepted when creating or updating a
// service package.
type PackageInput struct {
	Name          string
	CategoryID    string
	SubcategoryID *string
	Description   string
	Price         float64
	Duration      int
	DurationUnit  string
}

// PackageService manages bookable photography offerings.
type PackageService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewPackageService constructs a PackageService instance.
func NewPackageService(db *gorm.DB, auditService *AuditService) (*PackageService, error) {
	if db == nil {
		return nil, errors.New("package service: db is required")
	}
	return &PackageService{db: db, auditService: auditService}, nil
}

// List returns all packages with category relations preloaded, optionally
// filtered by category.
func (s *PackageService) List(ctx context.Context, categoryID string) ([]models.Package, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Package{})
	if categoryID = strings.TrimSpace(categoryID); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var packages []models.Package
	if err := query.
		Preload("Category").
		Preload("Subcategory").
		Order("name ASC").
		Find(&packages).Error; err != nil {
		return nil, fmt.Errorf("package service: list packages: %w", err)
	}
	return packages, nil
}

// Get fetches a package by id.
func (s *PackageService) Get(ctx context.Context, id string) (*models.Package, error) {
	ctx = ensureContext(ctx)

	var pkg models.Package
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Subcategory").
		First(&pkg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("package service: get package: %w", err)
	}
	return &pkg, nil
}

// Create persists a new package.
func (s *PackageService) Create(ctx context.Context, input PackageInput) (*models.Package, error) {
	ctx = ensureContext(ctx)

	if err := validatePackageInput(input); err != nil {
		return nil, err
	}

	pkg := &models.Package{
		Name:         strings.TrimSpace(input.Name),
		CategoryID:   strings.TrimSpace(input.CategoryID),
		Description:  strings.TrimSpace(input.Description),
		Price:        input.Price,
		Duration:     input.Duration,
		DurationUnit: strings.TrimSpace(input.DurationUnit),
	}
	if input.SubcategoryID != nil && strings.TrimSpace(*input.SubcategoryID) != "" {
		sub := strings.TrimSpace(*input.SubcategoryID)
		pkg.SubcategoryID = &sub
	}

	if err := s.db.WithContext(ctx).Create(pkg).Error; err != nil {
		return nil, fmt.Errorf("package service: create package: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "package.create",
		Resource: "package:" + pkg.ID,
		Result:   "success",
		Details:  map[string]any{"name": pkg.Name},
	})

	return s.Get(ctx, pkg.ID)
}

// Update mutates an existing package.
func (s *PackageService) Update(ctx context.Context, id string, input PackageInput) (*models.Package, error) {
	ctx = ensureContext(ctx)

	pkg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validatePackageInput(input); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":          strings.TrimSpace(input.Name),
		"category_id":   strings.TrimSpace(input.CategoryID),
		"description":   strings.TrimSpace(input.Description),
		"price":         input.Price,
		"duration":      input.Duration,
		"duration_unit": strings.TrimSpace(input.DurationUnit),
	}
	if input.SubcategoryID != nil {
		if sub := strings.TrimSpace(*input.SubcategoryID); sub != "" {
			updates["subcategory_id"] = sub
		} else {
			updates["subcategory_id"] = nil
		}
	}

	if err := s.db.WithContext(ctx).Model(pkg).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("package service: update package: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "package.update",
		Resource: "package:" + pkg.ID,
		Result:   "success",
	})

	return s.Get(ctx, pkg.ID)
}

// Delete removes a package.
func (s *PackageService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	pkg, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(pkg).Error; err != nil {
		return fmt.Errorf("package service: delete package: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "package.delete",
		Resource: "package:" + pkg.ID,
		Result:   "success",
		Details:  map[string]any{"name": pkg.Name},
	})

	return nil
}

func validatePackageInput(input PackageInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewBadRequest("package name is required")
	}
	if strings.TrimSpace(input.CategoryID) == "" {
		return apperrors.NewBadRequest("category id is required")
	}
	if input.Price < 0 {
		return apperrors.NewBadRequest("price cannot be negative")
	}
	return nil
}
