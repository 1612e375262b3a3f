package repository

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActiveRangeQuery selects non-canceled appointments touching [From, To) that
// share at least one of the given parties. Nil RoomID or PatientID is ignored.
type ActiveRangeQuery struct {
	From      time.Time
	To        time.Time
	DoctorID  *uuid.UUID
	RoomID    *uuid.UUID
	PatientID *uuid.UUID
}

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	FindActiveInRange(ctx context.Context, db *gorm.DB, query ActiveRangeQuery) ([]entity.Appointment, error)
	Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
