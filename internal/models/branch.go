package models

// Branch is a physical studio location.
type Branch struct {
	BaseModel

	Name        string `gorm:"not null" json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	ManagerName string `json:"manager_name"`
	Status      string `gorm:"default:active" json:"status"`

	Projects []Project `gorm:"foreignKey:BranchID" json:"projects,omitempty"`
}
