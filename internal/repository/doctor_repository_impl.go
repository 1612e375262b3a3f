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

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	return db.WithContext(ctx).Omit("Specializations.*").Create(doctor).Error
}

func (r *doctorRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.WithContext(ctx).Preload("Specializations").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.WithContext(ctx).Preload("Specializations").Order("full_name ASC").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(doctor).Error
}

// UpdateSchedule writes only the two schedule columns.
func (r *doctorRepository) UpdateSchedule(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	return db.WithContext(ctx).Model(doctor).
		Select("working_days", "working_days_exceptions", "updated_at").
		Updates(doctor).Error
}

func (r *doctorRepository) ReplaceSpecializations(ctx context.Context, db *gorm.DB, doctor *entity.Doctor, specializations []entity.Specialization) error {
	return db.WithContext(ctx).Model(doctor).Association("Specializations").Replace(specializations)
}

func (r *doctorRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	if err := db.WithContext(ctx).Model(&entity.Doctor{ID: id}).Association("Specializations").Clear(); err != nil {
		return 0, err
	}
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Doctor{})
	return result.RowsAffected, result.Error
}
