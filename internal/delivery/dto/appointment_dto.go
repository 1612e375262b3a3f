package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateAppointmentRequest books a window. EndTime defaults to StartTime plus
// the treatment duration and Price to the treatment list price.
type CreateAppointmentRequest struct {
	DoctorID      uuid.UUID        `json:"doctor_id" validate:"required"`
	PatientID     uuid.UUID        `json:"patient_id" validate:"required"`
	TreatmentID   uuid.UUID        `json:"treatment_id" validate:"required"`
	RoomID        *uuid.UUID       `json:"room_id" validate:"omitempty"`
	StartTime     time.Time        `json:"start_time" validate:"required"`
	EndTime       *time.Time       `json:"end_time" validate:"omitempty"`
	Price         *decimal.Decimal `json:"price" validate:"omitempty"`
	PaymentStatus string           `json:"payment_status" validate:"omitempty,oneof=PAID UNPAID"`
	Note          string           `json:"note" validate:"omitempty,max=2000"`
}

// UpdateAppointmentRequest is a partial update; nil fields are left unchanged.
type UpdateAppointmentRequest struct {
	StartTime     *time.Time `json:"start_time" validate:"omitempty"`
	EndTime       *time.Time `json:"end_time" validate:"omitempty"`
	Status        *string    `json:"status" validate:"omitempty,oneof=BOOKED ONGOING CANCELED"`
	PaymentStatus *string    `json:"payment_status" validate:"omitempty,oneof=PAID UNPAID"`
	Note          *string    `json:"note" validate:"omitempty,max=2000"`
}

type ConflictCheckRequest struct {
	DoctorID             uuid.UUID  `json:"doctor_id" validate:"required"`
	RoomID               *uuid.UUID `json:"room_id" validate:"omitempty"`
	PatientID            *uuid.UUID `json:"patient_id" validate:"omitempty"`
	StartTime            time.Time  `json:"start_time" validate:"required"`
	EndTime              time.Time  `json:"end_time" validate:"required"`
	ExcludeAppointmentID *uuid.UUID `json:"exclude_appointment_id" validate:"omitempty"`
}

// AppointmentListRequest is built from query parameters.
type AppointmentListRequest struct {
	StartDate string `validate:"omitempty"` // Format: YYYY-MM-DD, inclusive
	EndDate   string `validate:"omitempty"` // Format: YYYY-MM-DD, inclusive
	DoctorID  string `validate:"omitempty,uuid"`
	PatientID string `validate:"omitempty,uuid"`
	RoomID    string `validate:"omitempty,uuid"`
	Status    string `validate:"omitempty,oneof=BOOKED ONGOING CANCELED"`
}

// Response DTOs

type AppointmentResponse struct {
	ID            uuid.UUID       `json:"id"`
	DoctorID      uuid.UUID       `json:"doctor_id"`
	DoctorName    string          `json:"doctor_name,omitempty"`
	PatientID     uuid.UUID       `json:"patient_id"`
	PatientName   string          `json:"patient_name,omitempty"`
	TreatmentID   uuid.UUID       `json:"treatment_id"`
	TreatmentName string          `json:"treatment_name,omitempty"`
	RoomID        *uuid.UUID      `json:"room_id,omitempty"`
	RoomName      string          `json:"room_name,omitempty"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	Price         decimal.Decimal `json:"price"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type ConflictResponse struct {
	Type          string    `json:"type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

type ConflictCheckResponse struct {
	HasConflicts bool               `json:"has_conflicts"`
	Conflicts    []ConflictResponse `json:"conflicts"`
}
