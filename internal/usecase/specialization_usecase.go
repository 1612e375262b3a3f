package usecase

import (
	"context"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SpecializationUsecase interface {
	CreateSpecialization(ctx context.Context, req *dto.SpecializationRequest) (*dto.SpecializationResponse, error)
	GetSpecialization(ctx context.Context, id uuid.UUID) (*dto.SpecializationResponse, error)
	GetAllSpecializations(ctx context.Context) (*dto.SpecializationListResponse, error)
	UpdateSpecialization(ctx context.Context, id uuid.UUID, req *dto.SpecializationRequest) (*dto.SpecializationResponse, error)
	DeleteSpecialization(ctx context.Context, id uuid.UUID) error
}

type specializationUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	specializationRepo repository.SpecializationRepository
}

func NewSpecializationUsecase(db *gorm.DB, log *logrus.Logger, specializationRepo repository.SpecializationRepository) SpecializationUsecase {
	return &specializationUsecase{
		db:                 db,
		log:                log,
		specializationRepo: specializationRepo,
	}
}

func (u *specializationUsecase) CreateSpecialization(ctx context.Context, req *dto.SpecializationRequest) (*dto.SpecializationResponse, error) {
	specialization := &entity.Specialization{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := u.specializationRepo.Create(ctx, u.db, specialization); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrNameAlreadyExists
		}
		u.log.Warnf("Failed to create specialization: %+v", err)
		return nil, storageError("create specialization", err)
	}

	return converter.SpecializationToResponse(specialization), nil
}

func (u *specializationUsecase) GetSpecialization(ctx context.Context, id uuid.UUID) (*dto.SpecializationResponse, error) {
	specialization, err := u.specializationRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find specialization by ID: %+v", err)
		return nil, storageError("find specialization", err)
	}
	if specialization == nil {
		return nil, ErrSpecializationNotFound
	}
	return converter.SpecializationToResponse(specialization), nil
}

func (u *specializationUsecase) GetAllSpecializations(ctx context.Context) (*dto.SpecializationListResponse, error) {
	specializations, err := u.specializationRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find specializations: %+v", err)
		return nil, storageError("list specializations", err)
	}

	return &dto.SpecializationListResponse{
		Specializations: converter.SpecializationsToResponses(specializations),
		Total:           len(specializations),
	}, nil
}

func (u *specializationUsecase) UpdateSpecialization(ctx context.Context, id uuid.UUID, req *dto.SpecializationRequest) (*dto.SpecializationResponse, error) {
	specialization, err := u.specializationRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find specialization by ID: %+v", err)
		return nil, storageError("find specialization", err)
	}
	if specialization == nil {
		return nil, ErrSpecializationNotFound
	}

	specialization.Name = req.Name
	specialization.Description = req.Description

	if err := u.specializationRepo.Update(ctx, u.db, specialization); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrNameAlreadyExists
		}
		u.log.Warnf("Failed to update specialization: %+v", err)
		return nil, storageError("update specialization", err)
	}

	return converter.SpecializationToResponse(specialization), nil
}

func (u *specializationUsecase) DeleteSpecialization(ctx context.Context, id uuid.UUID) error {
	affected, err := u.specializationRepo.Delete(ctx, u.db, id)
	if err != nil {
		if isForeignKeyError(err, "specialization") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete specialization: %+v", err)
		return storageError("delete specialization", err)
	}
	if affected == 0 {
		return ErrSpecializationNotFound
	}
	return nil
}
