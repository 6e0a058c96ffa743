package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/models"
	apperrors "github.com/lensfolio/backoffice/pkg/errors"
)

// ErrProjectNotFound indicates the requested project does not exist.
var ErrProjectNotFound = apperrors.New("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)

// Project lifecycle states.
var projectStatuses = map[string]struct{}{
	"pending":     {},
	"in_progress": {},
	"editing":     {},
	"review":      {},
	"delivered":   {},
	"cancelled":   {},
}

// ProjectInput describes the fields accepted when creating or updating a
// project.
type ProjectInput struct {
	ClientID              string
	BranchID              string
	ResponsibleID         *string
	Title                 string
	Type                  string
	SessionDate           *time.Time
	EstimatedDeliveryDate *time.Time
	Status                string
	InternalNotes         string
	Priority              string
}

// ListProjectsOptions controls pagination and filtering for project listing.
type ListProjectsOptions struct {
	Page     int
	PageSize int
	ClientID string
	BranchID string
	Status   string
}

// ProjectService manages client photo-shoot projects.
type ProjectService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewProjectService constructs a ProjectService instance.
func NewProjectService(db *gorm.DB, auditService *AuditService) (*ProjectService, error) {
	if db == nil {
		return nil, errors.New("project service: db is required")
	}
	return &ProjectService{db: db, auditService: auditService}, nil
}

// List returns paginated projects, newest first.
func (s *ProjectService) List(ctx context.Context, opts ListProjectsOptions) ([]models.Project, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := clampPagination(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Project{})
	if clientID := strings.TrimSpace(opts.ClientID); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if branchID := strings.TrimSpace(opts.BranchID); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}
	if status := strings.TrimSpace(opts.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("project service: count projects: %w", err)
	}

	var projects []models.Project
	if err := query.
		Preload("Client").
		Preload("Branch").
		Preload("Responsible").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&projects).Error; err != nil {
		return nil, 0, fmt.Errorf("project service: list projects: %w", err)
	}

	return projects, total, nil
}

// Get fetches a project with relations, tasks and files preloaded.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	ctx = ensureContext(ctx)

	var project models.Project
	if err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Branch").
		Preload("Responsible").
		Preload("ProductionTasks").
		Preload("Files").
		First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("project service: get project: %w", err)
	}
	return &project, nil
}

// Create persists a new project.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*models.Project, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewBadRequest("project title is required")
	}
	if strings.TrimSpace(input.ClientID) == "" {
		return nil, apperrors.NewBadRequest("client id is required")
	}
	if strings.TrimSpace(input.BranchID) == "" {
		return nil, apperrors.NewBadRequest("branch id is required")
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = "pending"
	}
	if _, ok := projectStatuses[status]; !ok {
		return nil, apperrors.NewBadRequest("invalid project status: " + status)
	}

	project := &models.Project{
		ClientID:              strings.TrimSpace(input.ClientID),
		BranchID:              strings.TrimSpace(input.BranchID),
		Title:                 strings.TrimSpace(input.Title),
		Type:                  strings.TrimSpace(input.Type),
		SessionDate:           input.SessionDate,
		EstimatedDeliveryDate: input.EstimatedDeliveryDate,
		Status:                status,
		InternalNotes:         strings.TrimSpace(input.InternalNotes),
		Priority:              strings.TrimSpace(input.Priority),
	}
	if project.Priority == "" {
		project.Priority = "normal"
	}
	if input.ResponsibleID != nil && strings.TrimSpace(*input.ResponsibleID) != "" {
		id := strings.TrimSpace(*input.ResponsibleID)
		project.ResponsibleID = &id
	}

	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, fmt.Errorf("project service: create project: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "project.create",
		Resource: "project:" + project.ID,
		Result:   "success",
		Details:  map[string]any{"title": project.Title},
	})

	return s.Get(ctx, project.ID)
}

// Update mutates an existing project.
func (s *ProjectService) Update(ctx context.Context, id string, input ProjectInput) (*models.Project, error) {
	ctx = ensureContext(ctx)

	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if title := strings.TrimSpace(input.Title); title != "" {
		updates["title"] = title
	}
	if clientID := strings.TrimSpace(input.ClientID); clientID != "" {
		updates["client_id"] = clientID
	}
	if branchID := strings.TrimSpace(input.BranchID); branchID != "" {
		updates["branch_id"] = branchID
	}
	if typ := strings.TrimSpace(input.Type); typ != "" {
		updates["type"] = typ
	}
	if input.SessionDate != nil {
		updates["session_date"] = *input.SessionDate
	}
	if input.EstimatedDeliveryDate != nil {
		updates["estimated_delivery_date"] = *input.EstimatedDeliveryDate
	}
	if notes := strings.TrimSpace(input.InternalNotes); notes != "" {
		updates["internal_notes"] = notes
	}
	if priority := strings.TrimSpace(input.Priority); priority != "" {
		updates["priority"] = priority
	}
	if input.ResponsibleID != nil {
		if rid := strings.TrimSpace(*input.ResponsibleID); rid != "" {
			updates["responsible_id"] = rid
		} else {
			updates["responsible_id"] = nil
		}
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		if _, ok := projectStatuses[status]; !ok {
			return nil, apperrors.NewBadRequest("invalid project status: " + status)
		}
		updates["status"] = status
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("project service: update project: %w", err)
		}
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "project.update",
		Resource: "project:" + project.ID,
		Result:   "success",
	})

	return s.Get(ctx, project.ID)
}

// Deliver marks a project as delivered, stamping the delivery time.
func (s *ProjectService) Deliver(ctx context.Context, id string) (*models.Project, error) {
	ctx = ensureContext(ctx)

	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]any{
		"status":       "delivered",
		"delivered_at": now,
	}
	if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("project service: deliver project: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "project.deliver",
		Resource: "project:" + project.ID,
		Result:   "success",
	})

	return s.Get(ctx, project.ID)
}

// Delete removes a project together with its production tasks and file
// records.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProductionTask{}).Error; err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectFile{}).Error; err != nil {
			return fmt.Errorf("delete files: %w", err)
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		return fmt.Errorf("project service: delete project: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "project.delete",
		Resource: "project:" + project.ID,
		Result:   "success",
		Details:  map[string]any{"title": project.Title},
	})

	return nil
}
