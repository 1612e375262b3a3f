package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Treatment is a bookable procedure with a fixed duration and list price
type Treatment struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string          `gorm:"type:varchar(255);not null" json:"name"`
	SpecializationID *uuid.UUID      `gorm:"type:uuid;index" json:"specialization_id,omitempty"`
	Duration         int             `gorm:"not null" json:"duration"` // minutes
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Specialization *Specialization `gorm:"foreignKey:SpecializationID" json:"specialization,omitempty"`
}

func (Treatment) TableName() string {
	return "treatments"
}

func (t *Treatment) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *Treatment) DurationTime() time.Duration {
	return time.Duration(t.Duration) * time.Minute
}
