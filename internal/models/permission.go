package models

// Permission is an atomic capability identified by a unique key such as
// "projects.view". Permissions are grouped by the module they guard.
type Permission struct {
	BaseModel

	Key    string `gorm:"uniqueIndex;not null" json:"key"`
	Name   string `gorm:"not null" json:"name"`
	Module string `gorm:"not null;index" json:"module"`

	Roles []Role `gorm:"many2many:role_permissions;" json:"roles,omitempty"`
	Users []User `gorm:"many2many:user_permissions;" json:"users,omitempty"`
}
