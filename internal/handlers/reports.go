package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/response"
)

type ReportHandler struct {
	svc *services.ReportService
}

func NewReportHandler(db *gorm.DB) (*ReportHandler, error) {
	svc, err := services.NewReportService(db)
	if err != nil {
		return nil, err
	}
	return &ReportHandler{svc: svc}, nil
}

// GET /api/reports/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	fromPtr, toPtr := timeRange(c)
	report, err := h.svc.Summary(requestContext(c), fromPtr, toPtr)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

// GET /api/reports/projects-by-branch
func (h *ReportHandler) ProjectsByBranch(c *gin.Context) {
	rows, err := h.svc.ProjectsByBranch(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func timeRange(c *gin.Context) (*time.Time, *time.Time) {
	var fromPtr, toPtr *time.Time
	if from, ok := parseDateQuery(c, "from"); ok {
		fromPtr = &from
	}
	if to, ok := parseDateQuery(c, "to"); ok {
		toPtr = &to
	}
	return fromPtr, toPtr
}

// GET /api/reports/productivity
func (h *ReportHandler) Productivity(c *gin.Context) {
	fromPtr, toPtr := timeRange(c)
	rows, err := h.svc.Productivity(requestContext(c), fromPtr, toPtr)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}
