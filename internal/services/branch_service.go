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

// ErrBranchNotFound indicates the requested branch does not exist.
var ErrBranchNotFound = apperrors.New("BRANCH_NOT_FOUND", "Branch not found", http.StatusNotFound)

// BranchInput describes the fields accepted when creating or updating a branch.
type BranchInput struct {
	Name        string
	Address     string
	City        string
	ManagerName string
	Status      string
}

// BranchService manages studio locations.
type BranchService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewBranchService constructs a BranchService instance.
func NewBranchService(db *gorm.DB, auditService *AuditService) (*BranchService, error) {
	if db == nil {
		return nil, errors.New("branch service: db is required")
	}
	return &BranchService{db: db, auditService: auditService}, nil
}

// List returns all branches ordered by name.
func (s *BranchService) List(ctx context.Context) ([]models.Branch, error) {
	ctx = ensureContext(ctx)

	var branches []models.Branch
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("branch service: list branches: %w", err)
	}
	return branches, nil
}

// Get fetches a branch by id.
func (s *BranchService) Get(ctx context.Context, id string) (*models.Branch, error) {
	ctx = ensureContext(ctx)

	var branch models.Branch
	if err := s.db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("branch service: get branch: %w", err)
	}
	return &branch, nil
}

// Create persists a new branch.
func (s *BranchService) Create(ctx context.Context, input BranchInput) (*models.Branch, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("branch name is required")
	}

	branch := &models.Branch{
		Name:        name,
		Address:     strings.TrimSpace(input.Address),
		City:        strings.TrimSpace(input.City),
		ManagerName: strings.TrimSpace(input.ManagerName),
		Status:      strings.TrimSpace(input.Status),
	}
	if branch.Status == "" {
		branch.Status = "active"
	}

	if err := s.db.WithContext(ctx).Create(branch).Error; err != nil {
		return nil, fmt.Errorf("branch service: create branch: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "branch.create",
		Resource: "branch:" + branch.ID,
		Result:   "success",
		Details:  map[string]any{"name": branch.Name},
	})

	return branch, nil
}

// Update mutates an existing branch.
func (s *BranchService) Update(ctx context.Context, id string, input BranchInput) (*models.Branch, error) {
	ctx = ensureContext(ctx)

	branch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("branch name is required")
	}

	updates := map[string]any{
		"name":         name,
		"address":      strings.TrimSpace(input.Address),
		"city":         strings.TrimSpace(input.City),
		"manager_name": strings.TrimSpace(input.ManagerName),
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		updates["status"] = status
	}

	if err := s.db.WithContext(ctx).Model(branch).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("branch service: update branch: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "branch.update",
		Resource: "branch:" + branch.ID,
		Result:   "success",
	})

	return branch, nil
}

// Delete removes a branch.
func (s *BranchService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	branch, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(branch).Error; err != nil {
		return fmt.Errorf("branch service: delete branch: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "branch.delete",
		Resource: "branch:" + branch.ID,
		Result:   "success",
		Details:  map[string]any{"name": branch.Name},
	})

	return nil
}
