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

// ErrProjectFileNotFound indicates the requested file record does not exist.
var ErrProjectFileNotFound = apperrors.New("PROJECT_FILE_NOT_FOUND", "Project file not found", http.StatusNotFound)

// ProjectFileInput describes the metadata recorded for an uploaded
// deliverable. Binary storage is out of scope; only the path is kept.
type ProjectFileInput struct {
	ProjectID  string
	UploaderID *string
	FileName   string
	Path       string
	MimeType   string
	SizeBytes  int64
}

// ProjectFileService manages upload metadata records attached to projects.
type ProjectFileService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewProjectFileService constructs a ProjectFileService instance.
func NewProjectFileService(db *gorm.DB, auditService *AuditService) (*ProjectFileService, error) {
	if db == nil {
		return nil, errors.New("project file service: db is required")
	}
	return &ProjectFileService{db: db, auditService: auditService}, nil
}

// List returns all file records for one project, newest first.
func (s *ProjectFileService) List(ctx context.Context, projectID string) ([]models.ProjectFile, error) {
	ctx = ensureContext(ctx)

	var files []models.ProjectFile
	if err := s.db.WithContext(ctx).
		Preload("Uploader").
		Where("project_id = ?", strings.TrimSpace(projectID)).
		Order("created_at DESC").
		Find(&files).Error; err != nil {
		return nil, fmt.Errorf("project file service: list files: %w", err)
	}
	return files, nil
}

// Get fetches a file record by id.
func (s *ProjectFileService) Get(ctx context.Context, id string) (*models.ProjectFile, error) {
	ctx = ensureContext(ctx)

	var file models.ProjectFile
	if err := s.db.WithContext(ctx).
		Preload("Uploader").
		First(&file, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectFileNotFound
		}
		return nil, fmt.Errorf("project file service: get file: %w", err)
	}
	return &file, nil
}

// Create records the metadata of an uploaded file under an existing project.
func (s *ProjectFileService) Create(ctx context.Context, input ProjectFileInput) (*models.ProjectFile, error) {
	ctx = ensureContext(ctx)

	projectID := strings.TrimSpace(input.ProjectID)
	if projectID == "" {
		return nil, apperrors.NewBadRequest("project id is required")
	}
	if strings.TrimSpace(input.FileName) == "" {
		return nil, apperrors.NewBadRequest("file name is required")
	}
	if strings.TrimSpace(input.Path) == "" {
		return nil, apperrors.NewBadRequest("file path is required")
	}

	var projectCount int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Count(&projectCount).Error; err != nil {
		return nil, fmt.Errorf("project file service: check project: %w", err)
	}
	if projectCount == 0 {
		return nil, ErrProjectNotFound
	}

	file := &models.ProjectFile{
		ProjectID: projectID,
		FileName:  strings.TrimSpace(input.FileName),
		Path:      strings.TrimSpace(input.Path),
		MimeType:  strings.TrimSpace(input.MimeType),
		SizeByte:  input.SizeBytes,
	}
	if input.UploaderID != nil && strings.TrimSpace(*input.UploaderID) != "" {
		id := strings.TrimSpace(*input.UploaderID)
		file.UploaderID = &id
	}

	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, fmt.Errorf("project file service: create file: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   file.UploaderID,
		Action:   "project.file.upload",
		Resource: "project:" + file.ProjectID,
		Result:   "success",
		Details:  map[string]any{"file_name": file.FileName},
	})

	return file, nil
}

// Delete removes a file record.
func (s *ProjectFileService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	file, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(file).Error; err != nil {
		return fmt.Errorf("project file service: delete file: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "project.file.delete",
		Resource: "project:" + file.ProjectID,
		Result:   "success",
		Details:  map[string]any{"file_name": file.FileName},
	})

	return nil
}
