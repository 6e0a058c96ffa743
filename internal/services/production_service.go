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

// ErrTaskNotFound indicates the requested production task does not exist.
var ErrTaskNotFound = apperrors.New("TASK_NOT_FOUND", "Production task not found", http.StatusNotFound)

// Production task states.
var taskStatuses = map[string]struct{}{
	"pending":     {},
	"in_progress": {},
	"done":        {},
	"cancelled":   {},
}

// ProductionTaskInput describes the fields accepted when creating or updating
// a production task.
type ProductionTaskInput struct {
	ProjectID        string
	EditorID         *string
	Name             string
	Status           string
	EstimatedMinutes int
	Notes            string
}

// ListTasksOptions controls filtering for production task listing.
type ListTasksOptions struct {
	ProjectID string
	EditorID  string
	Status    string
}

// ProductionService manages editing and retouching tasks within projects.
type ProductionService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewProductionService constructs a ProductionService instance.
func NewProductionService(db *gorm.DB, auditService *AuditService) (*ProductionService, error) {
	if db == nil {
		return nil, errors.New("production service: db is required")
	}
	return &ProductionService{db: db, auditService: auditService}, nil
}

// List returns production tasks matching the supplied filters, newest first.
func (s *ProductionService) List(ctx context.Context, opts ListTasksOptions) ([]models.ProductionTask, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.ProductionTask{})
	if projectID := strings.TrimSpace(opts.ProjectID); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if editorID := strings.TrimSpace(opts.EditorID); editorID != "" {
		query = query.Where("editor_id = ?", editorID)
	}
	if status := strings.TrimSpace(opts.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.ProductionTask
	if err := query.
		Preload("Project").
		Preload("Editor").
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("production service: list tasks: %w", err)
	}
	return tasks, nil
}

// Get fetches a production task by id.
func (s *ProductionService) Get(ctx context.Context, id string) (*models.ProductionTask, error) {
	ctx = ensureContext(ctx)

	var task models.ProductionTask
	if err := s.db.WithContext(ctx).
		Preload("Project").
		Preload("Editor").
		First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("production service: get task: %w", err)
	}
	return &task, nil
}

// Create persists a new production task under an existing project.
func (s *ProductionService) Create(ctx context.Context, input ProductionTaskInput) (*models.ProductionTask, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewBadRequest("task name is required")
	}
	projectID := strings.TrimSpace(input.ProjectID)
	if projectID == "" {
		return nil, apperrors.NewBadRequest("project id is required")
	}

	var projectCount int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Count(&projectCount).Error; err != nil {
		return nil, fmt.Errorf("production service: check project: %w", err)
	}
	if projectCount == 0 {
		return nil, ErrProjectNotFound
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = "pending"
	}
	if _, ok := taskStatuses[status]; !ok {
		return nil, apperrors.NewBadRequest("invalid task status: " + status)
	}

	task := &models.ProductionTask{
		ProjectID:        projectID,
		Name:             strings.TrimSpace(input.Name),
		Status:           status,
		EstimatedMinutes: input.EstimatedMinutes,
		Notes:            strings.TrimSpace(input.Notes),
	}
	if input.EditorID != nil && strings.TrimSpace(*input.EditorID) != "" {
		id := strings.TrimSpace(*input.EditorID)
		task.EditorID = &id
	}

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, fmt.Errorf("production service: create task: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "production.task.create",
		Resource: "task:" + task.ID,
		Result:   "success",
		Details:  map[string]any{"name": task.Name, "project_id": task.ProjectID},
	})

	return s.Get(ctx, task.ID)
}

// Update mutates an existing production task.
func (s *ProductionService) Update(ctx context.Context, id string, input ProductionTaskInput) (*models.ProductionTask, error) {
	ctx = ensureContext(ctx)

	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		updates["notes"] = notes
	}
	if input.EstimatedMinutes > 0 {
		updates["estimated_minutes"] = input.EstimatedMinutes
	}
	if input.EditorID != nil {
		if eid := strings.TrimSpace(*input.EditorID); eid != "" {
			updates["editor_id"] = eid
		} else {
			updates["editor_id"] = nil
		}
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		if _, ok := taskStatuses[status]; !ok {
			return nil, apperrors.NewBadRequest("invalid task status: " + status)
		}
		updates["status"] = status
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("production service: update task: %w", err)
		}
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "production.task.update",
		Resource: "task:" + task.ID,
		Result:   "success",
	})

	return s.Get(ctx, task.ID)
}

// Start moves a task into progress and stamps the start time.
func (s *ProductionService) Start(ctx context.Context, id string) (*models.ProductionTask, error) {
	ctx = ensureContext(ctx)

	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]any{
		"status":     "in_progress",
		"started_at": now,
	}
	if err := s.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("production service: start task: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "production.task.start",
		Resource: "task:" + task.ID,
		Result:   "success",
	})

	return s.Get(ctx, task.ID)
}

// Finish marks a task done, stamping the finish time and accumulating spent
// minutes from the start timestamp when present.
func (s *ProductionService) Finish(ctx context.Context, id string) (*models.ProductionTask, error) {
	ctx = ensureContext(ctx)

	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	spent := task.SpentMinutes
	if task.StartedAt != nil && now.After(*task.StartedAt) {
		spent += int(now.Sub(*task.StartedAt).Minutes())
	}

	updates := map[string]any{
		"status":        "done",
		"finished_at":   now,
		"spent_minutes": spent,
	}
	if err := s.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("production service: finish task: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "production.task.finish",
		Resource: "task:" + task.ID,
		Result:   "success",
		Details:  map[string]any{"spent_minutes": spent},
	})

	return s.Get(ctx, task.ID)
}

// Delete removes a production task.
func (s *ProductionService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(task).Error; err != nil {
		return fmt.Errorf("production service: delete task: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "production.task.delete",
		Resource: "task:" + task.ID,
		Result:   "success",
		Details:  map[string]any{"name": task.Name},
	})

	return nil
}
