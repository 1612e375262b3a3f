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

type treatmentRepository struct{}

func NewTreatmentRepository() domainRepo.TreatmentRepository {
	return &treatmentRepository{}
}

func (r *treatmentRepository) Create(ctx context.Context, db *gorm.DB, treatment *entity.Treatment) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(treatment).Error
}

func (r *treatmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Treatment, error) {
	var treatment entity.Treatment
	err := db.WithContext(ctx).Preload("Specialization").Where("id = ?", id).First(&treatment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &treatment, nil
}

func (r *treatmentRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Treatment, error) {
	var treatments []entity.Treatment
	if err := db.WithContext(ctx).Preload("Specialization").Order("name ASC").Find(&treatments).Error; err != nil {
		return nil, err
	}
	return treatments, nil
}

func (r *treatmentRepository) Update(ctx context.Context, db *gorm.DB, treatment *entity.Treatment) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(treatment).Error
}

func (r *treatmentRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Treatment{})
	return result.RowsAffected, result.Error
}
