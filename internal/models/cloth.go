package models

// Cloth is a rentable clothing inventory item tied to a branch.
type Cloth struct {
	BaseModel

	Image         string    `json:"image"`
	Name          string    `gorm:"not null" json:"name"`
	CategoryID    string    `gorm:"type:uuid;not null" json:"category_id"`
	Category      *Category `json:"category,omitempty"`
	SubcategoryID *string   `gorm:"type:uuid" json:"subcategory_id"`
	Subcategory   *Category `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	BranchID      string    `gorm:"type:uuid;not null" json:"branch_id"`
	Branch        *Branch   `json:"branch,omitempty"`
	Price         float64   `json:"price"`
	Status        string    `gorm:"default:available" json:"status"`
}

// Clothing item states.
const (
	ClothAvailable = "available"
	ClothReserved  = "reserved"
	ClothLaundry   = "laundry"
	ClothBroken    = "broken"
	ClothInSession = "in_session"
)
