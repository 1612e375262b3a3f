package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomRepository interface {
	Create(ctx context.Context, db *gorm.DB, room *entity.Room) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Room, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Room, error)
	Update(ctx context.Context, db *gorm.DB, room *entity.Room) error
	ReplaceSpecializations(ctx context.Context, db *gorm.DB, room *entity.Room, specializations []entity.Specialization) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
