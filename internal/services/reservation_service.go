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

// ErrReservationNotFound indicates the requested reservation does not exist.
var ErrReservationNotFound = apperrors.New("RESERVATION_NOT_FOUND", "Reservation not found", http.StatusNotFound)

// ReservationInput describes the fields accepted when creating or updating a
// reservation. ServiceableType selects whether a package or a clothing item
// is being booked.
type ReservationInput struct {
	ClientID        string
	ServiceableID   string
	ServiceableType string
	Date            time.Time
	TotalAmount     float64
	Category        string

	PaidAmount         float64
	PaymentStatus      string
	PaymentMethod      string
	BankCode           string
	TransferScreenshot string
}

// ListReservationsOptions controls pagination and filtering for reservation
// listing.
type ListReservationsOptions struct {
	Page     int
	PageSize int
	ClientID string
	From     *time.Time
	To       *time.Time
}

// ReservationService manages package and clothing bookings.
type ReservationService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewReservationService constructs a ReservationService instance.
func NewReservationService(db *gorm.DB, auditService *AuditService) (*ReservationService, error) {
	if db == nil {
		return nil, errors.New("reservation service: db is required")
	}
	return &ReservationService{db: db, auditService: auditService}, nil
}

// List returns paginated reservations ordered by date descending.
func (s *ReservationService) List(ctx context.Context, opts ListReservationsOptions) ([]models.Reservation, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := clampPagination(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Reservation{})
	if clientID := strings.TrimSpace(opts.ClientID); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if opts.From != nil {
		query = query.Where("date >= ?", *opts.From)
	}
	if opts.To != nil {
		query = query.Where("date <= ?", *opts.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("reservation service: count reservations: %w", err)
	}

	var reservations []models.Reservation
	if err := query.
		Preload("Client").
		Order("date DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&reservations).Error; err != nil {
		return nil, 0, fmt.Errorf("reservation service: list reservations: %w", err)
	}

	return reservations, total, nil
}

// Calendar returns all reservations within the supplied date range ordered by
// date ascending, for schedule views.
func (s *ReservationService) Calendar(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	ctx = ensureContext(ctx)

	if to.Before(from) {
		return nil, apperrors.NewBadRequest("calendar range end precedes start")
	}

	var reservations []models.Reservation
	if err := s.db.WithContext(ctx).
		Preload("Client").
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("reservation service: calendar: %w", err)
	}
	return reservations, nil
}

// Get fetches a reservation by id.
func (s *ReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	ctx = ensureContext(ctx)

	var reservation models.Reservation
	if err := s.db.WithContext(ctx).
		Preload("Client").
		First(&reservation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("reservation service: get reservation: %w", err)
	}
	return &reservation, nil
}

// Create persists a new reservation after validating the client and the
// referenced serviceable exist.
func (s *ReservationService) Create(ctx context.Context, input ReservationInput) (*models.Reservation, error) {
	ctx = ensureContext(ctx)

	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		ClientID:        strings.TrimSpace(input.ClientID),
		ServiceableID:   strings.TrimSpace(input.ServiceableID),
		ServiceableType: strings.TrimSpace(input.ServiceableType),
		Date:            input.Date,
		TotalAmount:     input.TotalAmount,
		Category:        strings.TrimSpace(input.Category),

		PaidAmount:         input.PaidAmount,
		PaymentStatus:      paymentStatusOrDefault(input),
		PaymentMethod:      strings.TrimSpace(input.PaymentMethod),
		BankCode:           strings.TrimSpace(input.BankCode),
		TransferScreenshot: strings.TrimSpace(input.TransferScreenshot),
	}

	if err := s.db.WithContext(ctx).Create(reservation).Error; err != nil {
		return nil, fmt.Errorf("reservation service: create reservation: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "reservation.create",
		Resource: "reservation:" + reservation.ID,
		Result:   "success",
		Details: map[string]any{
			"client_id":        reservation.ClientID,
			"serviceable_type": reservation.ServiceableType,
		},
	})

	return s.Get(ctx, reservation.ID)
}

// Update mutates an existing reservation.
func (s *ReservationService) Update(ctx context.Context, id string, input ReservationInput) (*models.Reservation, error) {
	ctx = ensureContext(ctx)

	reservation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"client_id":           strings.TrimSpace(input.ClientID),
		"serviceable_id":      strings.TrimSpace(input.ServiceableID),
		"serviceable_type":    strings.TrimSpace(input.ServiceableType),
		"date":                input.Date,
		"total_amount":        input.TotalAmount,
		"category":            strings.TrimSpace(input.Category),
		"paid_amount":         input.PaidAmount,
		"payment_status":      paymentStatusOrDefault(input),
		"payment_method":      strings.TrimSpace(input.PaymentMethod),
		"bank_code":           strings.TrimSpace(input.BankCode),
		"transfer_screenshot": strings.TrimSpace(input.TransferScreenshot),
	}

	if err := s.db.WithContext(ctx).Model(reservation).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("reservation service: update reservation: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "reservation.update",
		Resource: "reservation:" + reservation.ID,
		Result:   "success",
	})

	return s.Get(ctx, reservation.ID)
}

// RecordPayment adds an amount to the paid total, flipping the payment status
// to paid once the total is covered.
func (s *ReservationService) RecordPayment(ctx context.Context, id string, amount float64, method, bankCode string) (*models.Reservation, error) {
	ctx = ensureContext(ctx)

	if amount <= 0 {
		return nil, apperrors.NewBadRequest("payment amount must be positive")
	}

	reservation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	paid := reservation.PaidAmount + amount
	status := models.PaymentPending
	if paid >= reservation.TotalAmount {
		status = models.PaymentPaid
	}

	updates := map[string]any{
		"paid_amount":    paid,
		"payment_status": status,
	}
	if method = strings.TrimSpace(method); method != "" {
		updates["payment_method"] = method
	}
	if bankCode = strings.TrimSpace(bankCode); bankCode != "" {
		updates["bank_code"] = bankCode
	}

	if err := s.db.WithContext(ctx).Model(reservation).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("reservation service: record payment: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "reservation.payment",
		Resource: "reservation:" + reservation.ID,
		Result:   "success",
		Details:  map[string]any{"amount": amount, "payment_status": status},
	})

	return s.Get(ctx, reservation.ID)
}

// Delete removes a reservation.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	reservation, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(reservation).Error; err != nil {
		return fmt.Errorf("reservation service: delete reservation: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "reservation.delete",
		Resource: "reservation:" + reservation.ID,
		Result:   "success",
	})

	return nil
}

func (s *ReservationService) validateInput(ctx context.Context, input ReservationInput) error {
	clientID := strings.TrimSpace(input.ClientID)
	if clientID == "" {
		return apperrors.NewBadRequest("client id is required")
	}
	if input.Date.IsZero() {
		return apperrors.NewBadRequest("reservation date is required")
	}
	if input.TotalAmount < 0 || input.PaidAmount < 0 {
		return apperrors.NewBadRequest("amounts cannot be negative")
	}

	var clientCount int64
	if err := s.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", clientID).Count(&clientCount).Error; err != nil {
		return fmt.Errorf("reservation service: check client: %w", err)
	}
	if clientCount == 0 {
		return ErrClientNotFound
	}

	serviceableID := strings.TrimSpace(input.ServiceableID)
	if serviceableID == "" {
		return apperrors.NewBadRequest("serviceable id is required")
	}

	switch strings.TrimSpace(input.ServiceableType) {
	case models.ServiceablePackage:
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Package{}).Where("id = ?", serviceableID).Count(&count).Error; err != nil {
			return fmt.Errorf("reservation service: check package: %w", err)
		}
		if count == 0 {
			return ErrPackageNotFound
		}
	case models.ServiceableCloth:
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Cloth{}).Where("id = ?", serviceableID).Count(&count).Error; err != nil {
			return fmt.Errorf("reservation service: check cloth: %w", err)
		}
		if count == 0 {
			return ErrClothNotFound
		}
	default:
		return apperrors.NewBadRequest("serviceable type must be package or cloth")
	}

	if status := strings.TrimSpace(input.PaymentStatus); status != "" &&
		status != models.PaymentPending && status != models.PaymentPaid {
		return apperrors.NewBadRequest("payment status must be pending or paid")
	}

	return nil
}

func paymentStatusOrDefault(input ReservationInput) string {
	if status := strings.TrimSpace(input.PaymentStatus); status != "" {
		return status
	}
	if input.TotalAmount > 0 && input.PaidAmount >= input.TotalAmount {
		return models.PaymentPaid
	}
	return models.PaymentPending
}
