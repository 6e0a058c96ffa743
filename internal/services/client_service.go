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

// ErrClientNotFound indicates the requested client does not exist.
var ErrClientNotFound = apperrors.New("CLIENT_NOT_FOUND", "Client not found", http.StatusNotFound)

// ClientInput describes the fields accepted when creating or updating a client.
type ClientInput struct {
	Name         string
	Phone        string
	Email        string
	Notes        string
	Status       string
	RegisteredAt *time.Time
}

// ListClientsOptions controls pagination and search for client listing.
type ListClientsOptions struct {
	Page     int
	PageSize int
	Query    string
	Status   string
}

// ClientService manages studio customers.
type ClientService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewClientService constructs a ClientService instance.
func NewClientService(db *gorm.DB, auditService *AuditService) (*ClientService, error) {
	if db == nil {
		return nil, errors.New("client service: db is required")
	}
	return &ClientService{db: db, auditService: auditService}, nil
}

// List returns paginated clients, newest first, optionally matched against
// name, phone or email.
func (s *ClientService) List(ctx context.Context, opts ListClientsOptions) ([]models.Client, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := clampPagination(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Client{})
	if q := strings.TrimSpace(opts.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}
	if status := strings.TrimSpace(opts.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("client service: count clients: %w", err)
	}

	var clients []models.Client
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&clients).Error; err != nil {
		return nil, 0, fmt.Errorf("client service: list clients: %w", err)
	}

	return clients, total, nil
}

// Get fetches a client by id.
func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	ctx = ensureContext(ctx)

	var client models.Client
	if err := s.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("client service: get client: %w", err)
	}
	return &client, nil
}

// Create persists a new client.
func (s *ClientService) Create(ctx context.Context, input ClientInput) (*models.Client, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("client name is required")
	}

	client := &models.Client{
		Name:         name,
		Phone:        strings.TrimSpace(input.Phone),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Notes:        strings.TrimSpace(input.Notes),
		Status:       strings.TrimSpace(input.Status),
		RegisteredAt: input.RegisteredAt,
	}
	if client.Status == "" {
		client.Status = "active"
	}
	if client.RegisteredAt == nil {
		now := time.Now()
		client.RegisteredAt = &now
	}

	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, fmt.Errorf("client service: create client: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "client.create",
		Resource: "client:" + client.ID,
		Result:   "success",
		Details:  map[string]any{"name": client.Name},
	})

	return client, nil
}

// Update mutates an existing client.
func (s *ClientService) Update(ctx context.Context, id string, input ClientInput) (*models.Client, error) {
	ctx = ensureContext(ctx)

	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("client name is required")
	}

	updates := map[string]any{
		"name":  name,
		"phone": strings.TrimSpace(input.Phone),
		"email": strings.ToLower(strings.TrimSpace(input.Email)),
		"notes": strings.TrimSpace(input.Notes),
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		updates["status"] = status
	}
	if input.RegisteredAt != nil {
		updates["registered_at"] = *input.RegisteredAt
	}

	if err := s.db.WithContext(ctx).Model(client).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("client service: update client: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "client.update",
		Resource: "client:" + client.ID,
		Result:   "success",
	})

	return client, nil
}

// Delete removes a client.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	client, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(client).Error; err != nil {
		return fmt.Errorf("client service: delete client: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "client.delete",
		Resource: "client:" + client.ID,
		Result:   "success",
		Details:  map[string]any{"name": client.Name},
	})

	return nil
}
