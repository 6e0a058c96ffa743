package models

// Package is a bookable photography service offering.
type Package struct {
	BaseModel

	Name          string    `gorm:"not null" json:"name"`
	CategoryID    string    `gorm:"type:uuid;not null" json:"category_id"`
	Category      *Category `json:"category,omitempty"`
	SubcategoryID *string   `gorm:"type:uuid" json:"subcategory_id"`
	Subcategory   *Category `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Duration      int       `json:"duration"`
	DurationUnit  string    `json:"duration_unit"`
}
