package repository

import (
	"context"
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roomRepository struct{}

func NewRoomRepository() domainRepo.RoomRepository {
	return &roomRepository{}
}

func (r *roomRepository) Create(ctx context.Context, db *gorm.DB, room *entity.Room) error {
	return db.WithContext(ctx).Omit("Specializations.*").Create(room).Error
}

func (r *roomRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Room, error) {
	var room entity.Room
	err := db.WithContext(ctx).Preload("Specializations").Where("id = ?", id).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Room, error) {
	var rooms []entity.Room
	if err := db.WithContext(ctx).Preload("Specializations").Order("name ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) Update(ctx context.Context, db *gorm.DB, room *entity.Room) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(room).Error
}

func (r *roomRepository) ReplaceSpecializations(ctx context.Context, db *gorm.DB, room *entity.Room, specializations []entity.Specialization) error {
	return db.WithContext(ctx).Model(room).Association("Specializations").Replace(specializations)
}

func (r *roomRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	if err := db.WithContext(ctx).Model(&entity.Room{ID: id}).Association("Specializations").Clear(); err != nil {
		return 0, err
	}
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Room{})
	return result.RowsAffected, result.Error
}
