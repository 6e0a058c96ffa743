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

// ErrClothNotFound indicates the requested clothing item does not exist.
var ErrClothNotFound = apperrors.New("CLOTH_NOT_FOUND", "Clothing item not found", http.StatusNotFound)

var clothStatuses = map[string]struct{}{
	models.ClothAvailable: {},
	models.ClothReserved:  {},
	models.ClothLaundry:   {},
	models.ClothBroken:    {},
	models.ClothInSession: {},
}

// ClothInput describes the fields accepted when creating or updating a
// clothing item.
type ClothInput struct {
	Image         string
	Name          string
	CategoryID    string
	SubcategoryID *string
	BranchID      string
	Price         float64
	Status        string
}

// ListClothesOptions controls filtering for clothing listing.
type ListClothesOptions struct {
	BranchID   string
	CategoryID string
	Status     string
}

// ClothService manages the rentable clothing inventory.
type ClothService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewClothService constructs a ClothService instance.
func NewClothService(db *gorm.DB, auditService *AuditService) (*ClothService, error) {
	if db == nil {
		return nil, errors.New("cloth service: db is required")
	}
	return &ClothService{db: db, auditService: auditService}, nil
}

// List returns clothing items matching the supplied filters.
func (s *ClothService) List(ctx context.Context, opts ListClothesOptions) ([]models.Cloth, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Cloth{})
	if branchID := strings.TrimSpace(opts.BranchID); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}
	if categoryID := strings.TrimSpace(opts.CategoryID); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if status := strings.TrimSpace(opts.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var clothes []models.Cloth
	if err := query.
		Preload("Category").
		Preload("Subcategory").
		Preload("Branch").
		Order("name ASC").
		Find(&clothes).Error; err != nil {
		return nil, fmt.Errorf("cloth service: list clothes: %w", err)
	}
	return clothes, nil
}

// Get fetches a clothing item by id.
func (s *ClothService) Get(ctx context.Context, id string) (*models.Cloth, error) {
	ctx = ensureContext(ctx)

	var cloth models.Cloth
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Subcategory").
		Preload("Branch").
		First(&cloth, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClothNotFound
		}
		return nil, fmt.Errorf("cloth service: get cloth: %w", err)
	}
	return &cloth, nil
}

// Create persists a new clothing item.
func (s *ClothService) Create(ctx context.Context, input ClothInput) (*models.Cloth, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewBadRequest("cloth name is required")
	}
	if strings.TrimSpace(input.CategoryID) == "" {
		return nil, apperrors.NewBadRequest("category id is required")
	}
	if strings.TrimSpace(input.BranchID) == "" {
		return nil, apperrors.NewBadRequest("branch id is required")
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = models.ClothAvailable
	}
	if _, ok := clothStatuses[status]; !ok {
		return nil, apperrors.NewBadRequest("invalid cloth status: " + status)
	}

	cloth := &models.Cloth{
		Image:      strings.TrimSpace(input.Image),
		Name:       strings.TrimSpace(input.Name),
		CategoryID: strings.TrimSpace(input.CategoryID),
		BranchID:   strings.TrimSpace(input.BranchID),
		Price:      input.Price,
		Status:     status,
	}
	if input.SubcategoryID != nil && strings.TrimSpace(*input.SubcategoryID) != "" {
		sub := strings.TrimSpace(*input.SubcategoryID)
		cloth.SubcategoryID = &sub
	}

	if err := s.db.WithContext(ctx).Create(cloth).Error; err != nil {
		return nil, fmt.Errorf("cloth service: create cloth: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "cloth.create",
		Resource: "cloth:" + cloth.ID,
		Result:   "success",
		Details:  map[string]any{"name": cloth.Name},
	})

	return s.Get(ctx, cloth.ID)
}

// Update mutates an existing clothing item.
func (s *ClothService) Update(ctx context.Context, id string, input ClothInput) (*models.Cloth, error) {
	ctx = ensureContext(ctx)

	cloth, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewBadRequest("cloth name is required")
	}

	updates := map[string]any{
		"image": strings.TrimSpace(input.Image),
		"name":  strings.TrimSpace(input.Name),
		"price": input.Price,
	}
	if categoryID := strings.TrimSpace(input.CategoryID); categoryID != "" {
		updates["category_id"] = categoryID
	}
	if branchID := strings.TrimSpace(input.BranchID); branchID != "" {
		updates["branch_id"] = branchID
	}
	if input.SubcategoryID != nil {
		if sub := strings.TrimSpace(*input.SubcategoryID); sub != "" {
			updates["subcategory_id"] = sub
		} else {
			updates["subcategory_id"] = nil
		}
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		if _, ok := clothStatuses[status]; !ok {
			return nil, apperrors.NewBadRequest("invalid cloth status: " + status)
		}
		updates["status"] = status
	}

	if err := s.db.WithContext(ctx).Model(cloth).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("cloth service: update cloth: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "cloth.update",
		Resource: "cloth:" + cloth.ID,
		Result:   "success",
	})

	return s.Get(ctx, cloth.ID)
}

// UpdateStatus moves a clothing item between inventory states.
func (s *ClothService) UpdateStatus(ctx context.Context, id, status string) (*models.Cloth, error) {
	ctx = ensureContext(ctx)

	cloth, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status = strings.TrimSpace(status)
	if _, ok := clothStatuses[status]; !ok {
		return nil, apperrors.NewBadRequest("invalid cloth status: " + status)
	}

	if err := s.db.WithContext(ctx).Model(cloth).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("cloth service: update status: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "cloth.status",
		Resource: "cloth:" + cloth.ID,
		Result:   "success",
		Details:  map[string]any{"status": status},
	})

	cloth.Status = status
	return cloth, nil
}

// Delete removes a clothing item.
func (s *ClothService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	cloth, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(cloth).Error; err != nil {
		return fmt.Errorf("cloth service: delete cloth: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "cloth.delete",
		Resource: "cloth:" + cloth.ID,
		Result:   "success",
		Details:  map[string]any{"name": cloth.Name},
	})

	return nil
}
