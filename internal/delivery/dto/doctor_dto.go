package dto

import (
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

// WorkingScheduleRequest replaces a doctor's date exceptions, and the weekly
// defaults when working_days is present.
type WorkingScheduleRequest struct {
	WorkingDays *entity.WeeklySchedule     `json:"working_days" validate:"omitempty"`
	Exceptions  []entity.ScheduleException `json:"working_days_exceptions" validate:"required_without=WorkingDays"`
}

type CreateDoctorRequest struct {
	FullName          string                  `json:"full_name" validate:"required,min=2"`
	Email             string                  `json:"email" validate:"required,email"`
	Phone             string                  `json:"phone" validate:"omitempty,min=6,max=20"`
	SpecializationIDs []uuid.UUID             `json:"specialization_ids" validate:"omitempty,dive,required"`
	WorkingSchedule   *WorkingScheduleRequest `json:"working_schedule" validate:"omitempty"`
}

type UpdateDoctorRequest struct {
	FullName          string      `json:"full_name" validate:"required,min=2"`
	Email             string      `json:"email" validate:"required,email"`
	Phone             string      `json:"phone" validate:"omitempty,min=6,max=20"`
	SpecializationIDs []uuid.UUID `json:"specialization_ids" validate:"omitempty,dive,required"`
}

// Response DTOs

type DoctorResponse struct {
	ID                    uuid.UUID                  `json:"id"`
	FullName              string                     `json:"full_name"`
	Email                 string                     `json:"email"`
	Phone                 string                     `json:"phone,omitempty"`
	Specializations       []SpecializationResponse   `json:"specializations"`
	WorkingDays           entity.WeeklySchedule      `json:"working_days"`
	WorkingDaysExceptions []entity.ScheduleException `json:"working_days_exceptions"`
	CreatedAt             time.Time                  `json:"created_at"`
	UpdatedAt             time.Time                  `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

// WorkingWindowResponse is the effective working window of a doctor on one date.
type WorkingWindowResponse struct {
	DoctorID         uuid.UUID `json:"doctor_id"`
	Date             string    `json:"date"`
	Weekday          string    `json:"weekday"`
	IsWorking        bool      `json:"is_working"`
	ExceptionApplied bool      `json:"exception_applied"`
	Start            string    `json:"start,omitempty"`
	End              string    `json:"end,omitempty"`
}

type SlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type AvailableSlotsResponse struct {
	DoctorID        uuid.UUID      `json:"doctor_id"`
	RoomID          *uuid.UUID     `json:"room_id,omitempty"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"duration_minutes"`
	StepMinutes     int            `json:"step_minutes"`
	Slots           []SlotResponse `json:"slots"`
}

// AvailableSlotsRequest is built from query parameters. Either TreatmentID or
// DurationMinutes must be set.
type AvailableSlotsRequest struct {
	Date            string     `validate:"required"`
	TreatmentID     *uuid.UUID `validate:"omitempty"`
	DurationMinutes int        `validate:"omitempty,min=1,max=1440"`
	RoomID          *uuid.UUID `validate:"omitempty"`
}
