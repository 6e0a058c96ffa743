package models

import "time"

// Project is a client photo shoot moving through production towards delivery.
type Project struct {
	BaseModel

	ClientID      string  `gorm:"type:uuid;not null;index" json:"client_id"`
	Client        *Client `json:"client,omitempty"`
	BranchID      string  `gorm:"type:uuid;not null;index" json:"branch_id"`
	Branch        *Branch `json:"branch,omitempty"`
	ResponsibleID *string `gorm:"type:uuid" json:"responsible_id"`
	Responsible   *User   `gorm:"foreignKey:ResponsibleID" json:"responsible,omitempty"`

	Title                 string     `gorm:"not null" json:"title"`
	Type                  string     `json:"type"`
	SessionDate           *time.Time `json:"session_date"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
	DeliveredAt           *time.Time `json:"delivered_at"`
	Status                string     `gorm:"default:pending;index" json:"status"`
	InternalNotes         string     `json:"internal_notes"`
	Priority              string     `gorm:"default:normal" json:"priority"`

	ProductionTasks []ProductionTask `gorm:"foreignKey:ProjectID" json:"production_tasks,omitempty"`
	Files           []ProjectFile    `gorm:"foreignKey:ProjectID" json:"files,omitempty"`
}
