package models

// ProjectFile records an uploaded deliverable attached to a project. Binary
// storage lives outside this service; only the path and metadata persist here.
type ProjectFile struct {
	BaseModel

	ProjectID  string   `gorm:"type:uuid;not null;index" json:"project_id"`
	Project    *Project `json:"project,omitempty"`
	UploaderID *string  `gorm:"type:uuid" json:"uploader_id"`
	Uploader   *User    `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`

	FileName string `gorm:"not null" json:"file_name"`
	Path     string `gorm:"not null" json:"path"`
	MimeType string `json:"mime_type"`
	SizeByte int64  `json:"size_bytes"`
}
