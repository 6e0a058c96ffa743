package models

import "time"

// User holds credentials plus the two independent grant relations used by
// the authorization engine: assigned roles and directly granted permissions.
// Removing a role never touches direct permissions and vice versa.
type User struct {
	BaseModel

	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	Roles             []Role       `gorm:"many2many:user_roles;" json:"roles,omitempty"`
	DirectPermissions []Permission `gorm:"many2many:user_permissions;" json:"direct_permissions,omitempty"`

	AuditLogs []AuditLog `gorm:"foreignKey:UserID" json:"-"`

	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `json:"last_login_ip"`
}
