package models

import "gorm.io/datatypes"

// AuditLog records admin mutations and authorization denials.
type AuditLog struct {
	BaseModel

	UserID    *string        `gorm:"type:uuid;index" json:"user_id"`
	User      *User          `json:"user,omitempty"`
	Action    string         `gorm:"not null;index" json:"action"`
	Resource  string         `gorm:"index" json:"resource"`
	Result    string         `gorm:"index" json:"result"`
	IPAddress string         `json:"ip_address"`
	Details   datatypes.JSON `json:"details"`
}
