package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpecializationRepository interface {
	Create(ctx context.Context, db *gorm.DB, specialization *entity.Specialization) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Specialization, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]entity.Specialization, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Specialization, error)
	Update(ctx context.Context, db *gorm.DB, specialization *entity.Specialization) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
