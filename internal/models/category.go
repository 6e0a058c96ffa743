package models

// Category groups packages and clothing items; a category may nest under a
// parent to act as a subcategory.
type Category struct {
	BaseModel

	Name     string    `gorm:"not null" json:"name"`
	ParentID *string   `gorm:"type:uuid;index" json:"parent_id"`
	Parent   *Category `json:"parent,omitempty"`
}
