package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Doctor, error)
	Update(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	UpdateSchedule(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	ReplaceSpecializations(ctx context.Context, db *gorm.DB, doctor *entity.Doctor, specializations []entity.Specialization) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
