package models

import "time"

// Client is a studio customer.
type Client struct {
	BaseModel

	Name         string     `gorm:"not null" json:"name"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Notes        string     `json:"notes"`
	Status       string     `gorm:"default:active" json:"status"`
	RegisteredAt *time.Time `json:"registered_at"`

	Projects     []Project     `gorm:"foreignKey:ClientID" json:"projects,omitempty"`
	Reservations []Reservation `gorm:"foreignKey:ClientID" json:"reservations,omitempty"`
}
