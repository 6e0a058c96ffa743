package models

import "time"

// Serviceable types accepted by a reservation.
const (
	ServiceablePackage = "package"
	ServiceableCloth   = "cloth"
)

// Payment states for a reservation.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Reservation books a package or a clothing item for a client on a date and
// tracks payment progress.
type Reservation struct {
	BaseModel

	ClientID string  `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   *Client `json:"client,omitempty"`

	ServiceableID   string `gorm:"type:uuid;not null;index:idx_reservations_serviceable" json:"serviceable_id"`
	ServiceableType string `gorm:"not null;index:idx_reservations_serviceable" json:"serviceable_type"`

	Date        time.Time `gorm:"not null;index" json:"date"`
	TotalAmount float64   `json:"total_amount"`
	Category    string    `json:"category"`

	PaidAmount         float64 `gorm:"default:0" json:"paid_amount"`
	PaymentStatus      string  `gorm:"default:pending" json:"payment_status"`
	PaymentMethod      string  `json:"payment_method"`
	BankCode           string  `json:"bank_code"`
	TransferScreenshot string  `json:"transfer_screenshot"`
}
