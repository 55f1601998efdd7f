package model

type Supplier struct {
	BaseModel
	Name          string `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	ContactPerson string `gorm:"type:varchar(100)" json:"contact_person"`
	Email         string `gorm:"type:varchar(120)" json:"email"`
	Phone         string `gorm:"type:varchar(20)" json:"phone"`
	Address       string `gorm:"type:text" json:"address"`

	Products []Product `json:"products,omitempty"`
}
