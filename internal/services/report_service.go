package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/models"
)

// SummaryReport aggregates the headline back-office numbers.
type SummaryReport struct {
	Clients           int64   `json:"clients"`
	ActiveProjects    int64   `json:"active_projects"`
	DeliveredProjects int64   `json:"delivered_projects"`
	Reservations      int64   `json:"reservations"`
	ReservedRevenue   float64 `json:"reserved_revenue"`
	CollectedRevenue  float64 `json:"collected_revenue"`
	PendingPayments   int64   `json:"pending_payments"`
}

// BranchProjectCount is one row of the projects-by-branch report.
type BranchProjectCount struct {
	BranchID   string `json:"branch_id"`
	BranchName string `json:"branch_name"`
	Total      int64  `json:"total"`
	Delivered  int64  `json:"delivered"`
	InProgress int64  `json:"in_progress"`
}

// EditorProductivity is one row of the productivity report.
type EditorProductivity struct {
	EditorID     string `json:"editor_id"`
	EditorName   string `json:"editor_name"`
	TasksDone    int64  `json:"tasks_done"`
	TasksPending int64  `json:"tasks_pending"`
	SpentMinutes int64  `json:"spent_minutes"`
}

// ReportService computes read-only aggregates over the studio data.
type ReportService struct {
	db *gorm.DB
}

// NewReportService constructs a ReportService instance.
func NewReportService(db *gorm.DB) (*ReportService, error) {
	if db == nil {
		return nil, errors.New("report service: db is required")
	}
	return &ReportService{db: db}, nil
}

// Summary returns headline KPIs, optionally restricted to a date window on
// reservation dates and project creation.
func (s *ReportService) Summary(ctx context.Context, from, to *time.Time) (*SummaryReport, error) {
	ctx = ensureContext(ctx)

	report := &SummaryReport{}

	if err := s.db.WithContext(ctx).Model(&models.Client{}).Count(&report.Clients).Error; err != nil {
		return nil, fmt.Errorf("report service: count clients: %w", err)
	}

	projects := s.db.WithContext(ctx).Model(&models.Project{})
	if from != nil {
		projects = projects.Where("created_at >= ?", *from)
	}
	if to != nil {
		projects = projects.Where("created_at <= ?", *to)
	}
	if err := projects.Session(&gorm.Session{}).
		Where("status NOT IN ?", []string{"delivered", "cancelled"}).
		Count(&report.ActiveProjects).Error; err != nil {
		return nil, fmt.Errorf("report service: count active projects: %w", err)
	}
	if err := projects.Session(&gorm.Session{}).
		Where("status = ?", "delivered").
		Count(&report.DeliveredProjects).Error; err != nil {
		return nil, fmt.Errorf("report service: count delivered projects: %w", err)
	}

	reservations := s.db.WithContext(ctx).Model(&models.Reservation{})
	if from != nil {
		reservations = reservations.Where("date >= ?", *from)
	}
	if to != nil {
		reservations = reservations.Where("date <= ?", *to)
	}
	if err := reservations.Session(&gorm.Session{}).Count(&report.Reservations).Error; err != nil {
		return nil, fmt.Errorf("report service: count reservations: %w", err)
	}

	type revenue struct {
		Total float64
		Paid  float64
	}
	var rev revenue
	if err := reservations.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total_amount), 0) AS total, COALESCE(SUM(paid_amount), 0) AS paid").
		Scan(&rev).Error; err != nil {
		return nil, fmt.Errorf("report service: sum revenue: %w", err)
	}
	report.ReservedRevenue = rev.Total
	report.CollectedRevenue = rev.Paid

	if err := reservations.Session(&gorm.Session{}).
		Where("payment_status = ?", models.PaymentPending).
		Count(&report.PendingPayments).Error; err != nil {
		return nil, fmt.Errorf("report service: count pending payments: %w", err)
	}

	return report, nil
}

// ProjectsByBranch breaks project counts down per studio location.
func (s *ReportService) ProjectsByBranch(ctx context.Context) ([]BranchProjectCount, error) {
	ctx = ensureContext(ctx)

	var rows []BranchProjectCount
	err := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Select(`branches.id AS branch_id,
			branches.name AS branch_name,
			COUNT(projects.id) AS total,
			SUM(CASE WHEN projects.status = 'delivered' THEN 1 ELSE 0 END) AS delivered,
			SUM(CASE WHEN projects.status = 'in_progress' THEN 1 ELSE 0 END) AS in_progress`).
		Joins("JOIN branches ON branches.id = projects.branch_id").
		Group("branches.id, branches.name").
		Order("branches.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("report service: projects by branch: %w", err)
	}
	return rows, nil
}

// Productivity reports per-editor task throughput and time spent.
func (s *ReportService) Productivity(ctx context.Context, from, to *time.Time) ([]EditorProductivity, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).
		Model(&models.ProductionTask{}).
		Select(`users.id AS editor_id,
			users.name AS editor_name,
			SUM(CASE WHEN production_tasks.status = 'done' THEN 1 ELSE 0 END) AS tasks_done,
			SUM(CASE WHEN production_tasks.status IN ('pending', 'in_progress') THEN 1 ELSE 0 END) AS tasks_pending,
			COALESCE(SUM(production_tasks.spent_minutes), 0) AS spent_minutes`).
		Joins("JOIN users ON users.id = production_tasks.editor_id").
		Group("users.id, users.name").
		Order("tasks_done DESC")

	if from != nil {
		query = query.Where("production_tasks.created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("production_tasks.created_at <= ?", *to)
	}

	var rows []EditorProductivity
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("report service: productivity: %w", err)
	}
	return rows, nil
}
