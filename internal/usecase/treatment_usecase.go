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

type TreatmentUsecase interface {
	CreateTreatment(ctx context.Context, req *dto.TreatmentRequest) (*dto.TreatmentResponse, error)
	GetTreatment(ctx context.Context, id uuid.UUID) (*dto.TreatmentResponse, error)
	GetAllTreatments(ctx context.Context) (*dto.TreatmentListResponse, error)
	UpdateTreatment(ctx context.Context, id uuid.UUID, req *dto.TreatmentRequest) (*dto.TreatmentResponse, error)
	DeleteTreatment(ctx context.Context, id uuid.UUID) error
}

type treatmentUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	treatmentRepo      repository.TreatmentRepository
	specializationRepo repository.SpecializationRepository
}

func NewTreatmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	treatmentRepo repository.TreatmentRepository,
	specializationRepo repository.SpecializationRepository,
) TreatmentUsecase {
	return &treatmentUsecase{
		db:                 db,
		log:                log,
		treatmentRepo:      treatmentRepo,
		specializationRepo: specializationRepo,
	}
}

// checkTreatment validates the price and the optional specialization link.
func (u *treatmentUsecase) checkTreatment(ctx context.Context, req *dto.TreatmentRequest) (*entity.Specialization, error) {
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if req.SpecializationID == nil {
		return nil, nil
	}

	specialization, err := u.specializationRepo.FindByID(ctx, u.db, *req.SpecializationID)
	if err != nil {
		u.log.Warnf("Failed to find specialization by ID: %+v", err)
		return nil, storageError("find specialization", err)
	}
	if specialization == nil {
		return nil, ErrSpecializationNotFound
	}
	return specialization, nil
}

func (u *treatmentUsecase) CreateTreatment(ctx context.Context, req *dto.TreatmentRequest) (*dto.TreatmentResponse, error) {
	specialization, err := u.checkTreatment(ctx, req)
	if err != nil {
		return nil, err
	}

	treatment := &entity.Treatment{
		Name:             req.Name,
		SpecializationID: req.SpecializationID,
		Duration:         req.Duration,
		Price:            req.Price,
	}

	if err := u.treatmentRepo.Create(ctx, u.db, treatment); err != nil {
		u.log.Warnf("Failed to create treatment: %+v", err)
		return nil, storageError("create treatment", err)
	}
	treatment.Specialization = specialization

	return converter.TreatmentToResponse(treatment), nil
}

func (u *treatmentUsecase) GetTreatment(ctx context.Context, id uuid.UUID) (*dto.TreatmentResponse, error) {
	treatment, err := u.treatmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find treatment by ID: %+v", err)
		return nil, storageError("find treatment", err)
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}
	return converter.TreatmentToResponse(treatment), nil
}

func (u *treatmentUsecase) GetAllTreatments(ctx context.Context) (*dto.TreatmentListResponse, error) {
	treatments, err := u.treatmentRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find treatments: %+v", err)
		return nil, storageError("list treatments", err)
	}

	return &dto.TreatmentListResponse{
		Treatments: converter.TreatmentsToResponses(treatments),
		Total:      len(treatments),
	}, nil
}

// UpdateTreatment changes the catalogue entry only. Booked appointments keep
// their own window and price.
func (u *treatmentUsecase) UpdateTreatment(ctx context.Context, id uuid.UUID, req *dto.TreatmentRequest) (*dto.TreatmentResponse, error) {
	specialization, err := u.checkTreatment(ctx, req)
	if err != nil {
		return nil, err
	}

	treatment, err := u.treatmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find treatment by ID: %+v", err)
		return nil, storageError("find treatment", err)
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}

	treatment.Name = req.Name
	treatment.SpecializationID = req.SpecializationID
	treatment.Duration = req.Duration
	treatment.Price = req.Price

	if err := u.treatmentRepo.Update(ctx, u.db, treatment); err != nil {
		u.log.Warnf("Failed to update treatment: %+v", err)
		return nil, storageError("update treatment", err)
	}
	treatment.Specialization = specialization

	return converter.TreatmentToResponse(treatment), nil
}

func (u *treatmentUsecase) DeleteTreatment(ctx context.Context, id uuid.UUID) error {
	affected, err := u.treatmentRepo.Delete(ctx, u.db, id)
	if err != nil {
		if isForeignKeyError(err, "treatment") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete treatment: %+v", err)
		return storageError("delete treatment", err)
	}
	if affected == 0 {
		return ErrTreatmentNotFound
	}
	return nil
}
