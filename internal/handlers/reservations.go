package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/response"
)

type ReservationHandler struct {
	svc *services.ReservationService
}

func NewReservationHandler(db *gorm.DB, audit *services.AuditService) (*ReservationHandler, error) {
	svc, err := services.NewReservationService(db, audit)
	if err != nil {
		return nil, err
	}
	return &ReservationHandler{svc: svc}, nil
}

type reservationRequest struct {
	ClientID        string    `json:"client_id"`
	ServiceableID   string    `json:"serviceable_id"`
	ServiceableType string    `json:"serviceable_type"`
	Date            time.Time `json:"date"`
	TotalAmount     float64   `json:"total_amount"`
	Category        string    `json:"category"`

	PaidAmount         float64 `json:"paid_amount"`
	PaymentStatus      string  `json:"payment_status"`
	PaymentMethod      string  `json:"payment_method"`
	BankCode           string  `json:"bank_code"`
	TransferScreenshot string  `json:"transfer_screenshot"`
}

func (r reservationRequest) input() services.ReservationInput {
	return services.ReservationInput{
		ClientID:        r.ClientID,
		ServiceableID:   r.ServiceableID,
		ServiceableType: r.ServiceableType,
		Date:            r.Date,
		TotalAmount:     r.TotalAmount,
		Category:        r.Category,

		PaidAmount:         r.PaidAmount,
		PaymentStatus:      r.PaymentStatus,
		PaymentMethod:      r.PaymentMethod,
		BankCode:           r.BankCode,
		TransferScreenshot: r.TransferScreenshot,
	}
}

// GET /api/reservations
func (h *ReservationHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 50)

	opts := services.ListReservationsOptions{
		Page:     page,
		PageSize: perPage,
		ClientID: c.Query("client_id"),
	}
	if from, ok := parseDateQuery(c, "from"); ok {
		opts.From = &from
	}
	if to, ok := parseDateQuery(c, "to"); ok {
		opts.To = &to
	}

	reservations, total, err := h.svc.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, reservations, pageMeta(page, perPage, total))
}

// GET /api/reservations/calendar?from=...&to=...
func (h *ReservationHandler) Calendar(c *gin.Context) {
	from, okFrom := parseDateQuery(c, "from")
	to, okTo := parseDateQuery(c, "to")
	if !okFrom || !okTo {
		response.Error(c, errors.NewBadRequest("from and to dates are required"))
		return
	}

	reservations, err := h.svc.Calendar(requestContext(c), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reservations)
}

// GET /api/reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	reservation, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reservation)
}

// POST /api/reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	var body reservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	reservation, err := h.svc.Create(requestContext(c), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, reservation)
}

// PUT /api/reservations/:id
func (h *ReservationHandler) Update(c *gin.Context) {
	var body reservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	reservation, err := h.svc.Update(requestContext(c), c.Param("id"), body.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reservation)
}

// POST /api/reservations/:id/payments
func (h *ReservationHandler) RecordPayment(c *gin.Context) {
	var body struct {
		Amount   float64 `json:"amount"`
		Method   string  `json:"method"`
		BankCode string  `json:"bank_code"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, errors.ErrBadRequest)
		return
	}

	reservation, err := h.svc.RecordPayment(requestContext(c), c.Param("id"), body.Amount, body.Method, body.BankCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reservation)
}

// DELETE /api/reservations/:id
func (h *ReservationHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// parseDateQuery accepts RFC3339 timestamps or bare dates (2006-01-02).
func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, true
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts, true
	}
	return time.Time{}, false
}
