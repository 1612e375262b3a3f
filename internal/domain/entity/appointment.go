package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusBooked   AppointmentStatus = "BOOKED"
	AppointmentStatusOngoing  AppointmentStatus = "ONGOING"
	AppointmentStatusCanceled AppointmentStatus = "CANCELED"
)

// PaymentStatus is a flag only, no payment processing happens here
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "PAID"
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
)

// Appointment binds a doctor, patient, treatment and room to a time window
type Appointment struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	TreatmentID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"treatment_id"`
	RoomID        *uuid.UUID        `gorm:"type:uuid;index" json:"room_id,omitempty"`
	StartTime     time.Time         `gorm:"not null;index" json:"start_time"`
	EndTime       time.Time         `gorm:"not null;index" json:"end_time"`
	Price         decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"price"`
	Status        AppointmentStatus `gorm:"type:varchar(20);not null;default:'BOOKED';index" json:"status"`
	PaymentStatus PaymentStatus     `gorm:"type:varchar(20);not null;default:'UNPAID'" json:"payment_status"`
	Note          string            `gorm:"type:text" json:"note,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor    *Doctor    `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient   *Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Treatment *Treatment `gorm:"foreignKey:TreatmentID" json:"treatment,omitempty"`
	Room      *Room      `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AppointmentStatusBooked
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = PaymentStatusUnpaid
	}
	return nil
}

// IsCanceled checks if the appointment no longer occupies its window
func (a *Appointment) IsCanceled() bool {
	return a.Status == AppointmentStatusCanceled
}

// CanTransitionTo reports whether the status change is allowed.
// BOOKED -> ONGOING, BOOKED|ONGOING -> CANCELED; CANCELED is terminal.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if a.Status == next {
		return true
	}
	switch a.Status {
	case AppointmentStatusBooked:
		return next == AppointmentStatusOngoing || next == AppointmentStatusCanceled
	case AppointmentStatusOngoing:
		return next == AppointmentStatusCanceled
	default:
		return false
	}
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusBooked, AppointmentStatusOngoing, AppointmentStatusCanceled:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPaid || s == PaymentStatusUnpaid
}

// AppointmentFilter is a domain-level filter for listing appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	StartDate *time.Time // appointments starting on or after this instant
	EndDate   *time.Time // appointments starting before this instant
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	RoomID    *uuid.UUID
	Status    AppointmentStatus
}
