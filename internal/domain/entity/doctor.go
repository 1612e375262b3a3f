package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Doctor is a practitioner with a weekly working schedule and date exceptions
type Doctor struct {
	ID                    uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	FullName              string              `gorm:"type:varchar(255);not null" json:"full_name"`
	Email                 string              `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone                 string              `gorm:"type:varchar(20)" json:"phone,omitempty"`
	WorkingDays           WeeklySchedule      `gorm:"type:jsonb;serializer:json;not null" json:"working_days"`
	WorkingDaysExceptions []ScheduleException `gorm:"type:jsonb;serializer:json;not null" json:"working_days_exceptions"`
	CreatedAt             time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Specializations []Specialization `gorm:"many2many:doctor_specializations" json:"specializations,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.WorkingDaysExceptions == nil {
		d.WorkingDaysExceptions = []ScheduleException{}
	}
	return nil
}

// Schedule returns the doctor's working calendar.
func (d *Doctor) Schedule() WorkingSchedule {
	return WorkingSchedule{WorkingDays: d.WorkingDays, Exceptions: d.WorkingDaysExceptions}
}

// SetSchedule replaces both schedule columns.
func (d *Doctor) SetSchedule(s WorkingSchedule) {
	s.Normalize()
	d.WorkingDays = s.WorkingDays
	d.WorkingDaysExceptions = s.Exceptions
}
