package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TreatmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, treatment *entity.Treatment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Treatment, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Treatment, error)
	Update(ctx context.Context, db *gorm.DB, treatment *entity.Treatment) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
