package models

import "time"

// ProductionTask is an editing/retouching work item within a project.
type ProductionTask struct {
	BaseModel

	ProjectID string   `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project `json:"project,omitempty"`
	EditorID  *string  `gorm:"type:uuid" json:"editor_id"`
	Editor    *User    `gorm:"foreignKey:EditorID" json:"editor,omitempty"`

	Name             string     `gorm:"not null" json:"name"`
	Status           string     `gorm:"default:pending;index" json:"status"`
	StartedAt        *time.Time `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	SpentMinutes     int        `json:"spent_minutes"`
	Notes            string     `json:"notes"`
}
