package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient represents a person receiving treatment
type Patient struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName    string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Email       string     `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Phone       string     `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"type:char(1)" json:"gender,omitempty"`
	Address     string     `gorm:"type:text" json:"address,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)
