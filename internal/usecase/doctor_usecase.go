package usecase

import (
	"context"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) error
	UpdateWorkingSchedule(ctx context.Context, id uuid.UUID, req *dto.WorkingScheduleRequest) (*dto.DoctorResponse, error)
	GetWorkingWindow(ctx context.Context, id uuid.UUID, date string) (*dto.WorkingWindowResponse, error)
}

type doctorUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	doctorRepo         repository.DoctorRepository
	specializationRepo repository.SpecializationRepository
	auditService       service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	specializationRepo repository.SpecializationRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:                 db,
		log:                log,
		doctorRepo:         doctorRepo,
		specializationRepo: specializationRepo,
		auditService:       auditService,
	}
}

// resolveSpecializations loads every id or fails with ErrSpecializationNotFound.
func resolveSpecializations(ctx context.Context, db *gorm.DB, repo repository.SpecializationRepository, ids []uuid.UUID) ([]entity.Specialization, error) {
	if len(ids) == 0 {
		return []entity.Specialization{}, nil
	}

	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	specializations, err := repo.FindByIDs(ctx, db, ids)
	if err != nil {
		return nil, storageError("find specializations", err)
	}
	if len(specializations) != len(unique) {
		return nil, ErrSpecializationNotFound
	}
	return specializations, nil
}

// scheduleFromRequest keeps base as the weekly defaults when the request
// only carries exceptions.
func scheduleFromRequest(req *dto.WorkingScheduleRequest, base entity.WeeklySchedule) entity.WorkingSchedule {
	schedule := entity.WorkingSchedule{
		WorkingDays: base,
		Exceptions:  req.Exceptions,
	}
	if req.WorkingDays != nil {
		schedule.WorkingDays = *req.WorkingDays
	}
	schedule.Normalize()
	return schedule
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	schedule := entity.DefaultWorkingSchedule()
	if req.WorkingSchedule != nil {
		schedule = scheduleFromRequest(req.WorkingSchedule, schedule.WorkingDays)
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	specializations, err := resolveSpecializations(ctx, u.db, u.specializationRepo, req.SpecializationIDs)
	if err != nil {
		return nil, err
	}

	doctor := &entity.Doctor{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	doctor.SetSchedule(schedule)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.doctorRepo.Create(ctx, tx, doctor); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, storageError("create doctor", err)
	}

	if len(specializations) > 0 {
		if err := u.doctorRepo.ReplaceSpecializations(ctx, tx, doctor, specializations); err != nil {
			u.log.Warnf("Failed to set doctor specializations: %+v", err)
			return nil, storageError("set doctor specializations", err)
		}
	}
	doctor.Specializations = specializations

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionDoctorCreate, entity.AuditEntityDoctor, doctor.ID.String(), converter.DoctorToResponse(doctor)); err != nil {
		return nil, storageError("write audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError("commit doctor", err)
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, storageError("find doctor", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, storageError("list doctors", err)
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	specializations, err := resolveSpecializations(ctx, u.db, u.specializationRepo, req.SpecializationIDs)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, storageError("find doctor", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	before := converter.DoctorToResponse(doctor)

	doctor.FullName = req.FullName
	doctor.Email = req.Email
	doctor.Phone = req.Phone

	if err := u.doctorRepo.Update(ctx, tx, doctor); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, storageError("update doctor", err)
	}

	if err := u.doctorRepo.ReplaceSpecializations(ctx, tx, doctor, specializations); err != nil {
		u.log.Warnf("Failed to replace doctor specializations: %+v", err)
		return nil, storageError("replace doctor specializations", err)
	}
	doctor.Specializations = specializations

	after := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionDoctorUpdate, entity.AuditEntityDoctor, doctor.ID.String(), before, after); err != nil {
		return nil, storageError("write audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError("commit doctor", err)
	}

	return after, nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return storageError("find doctor", err)
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if _, err := u.doctorRepo.Delete(ctx, tx, id); err != nil {
		if isForeignKeyError(err, "doctor") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete doctor: %+v", err)
		return storageError("delete doctor", err)
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionDoctorDelete, entity.AuditEntityDoctor, id.String(), converter.DoctorToResponse(doctor)); err != nil {
		return storageError("write audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return storageError("commit doctor", err)
	}
	return nil
}

// UpdateWorkingSchedule replaces the exception list, and the weekly defaults
// when given. Existing appointments are left untouched.
func (u *doctorUsecase) UpdateWorkingSchedule(ctx context.Context, id uuid.UUID, req *dto.WorkingScheduleRequest) (*dto.DoctorResponse, error) {
	if req.WorkingDays != nil {
		if err := scheduleFromRequest(req, *req.WorkingDays).Validate(); err != nil {
			return nil, err
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, storageError("find doctor", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	before := doctor.Schedule()

	schedule := scheduleFromRequest(req, before.WorkingDays)
	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	doctor.SetSchedule(schedule)
	if err := u.doctorRepo.UpdateSchedule(ctx, tx, doctor); err != nil {
		u.log.Warnf("Failed to update working schedule: %+v", err)
		return nil, storageError("update working schedule", err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionScheduleUpdate, entity.AuditEntityDoctor, doctor.ID.String(), before, doctor.Schedule()); err != nil {
		return nil, storageError("write audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError("commit working schedule", err)
	}

	u.log.WithField("doctor_id", doctor.ID).Info("Working schedule updated")
	return converter.DoctorToResponse(doctor), nil
}

// GetWorkingWindow resolves the effective working hours on a date ("YYYY-MM-DD").
func (u *doctorUsecase) GetWorkingWindow(ctx context.Context, id uuid.UUID, date string) (*dto.WorkingWindowResponse, error) {
	d, err := entity.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	doctor, err := u.doctorRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, storageError("find doctor", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	day := d.In(timeLocation)
	schedule := doctor.Schedule()
	_, exceptionApplied := schedule.ExceptionFor(day)
	window, working := schedule.EffectiveWindow(day)

	resp := &dto.WorkingWindowResponse{
		DoctorID:         doctor.ID,
		Date:             d.String(),
		Weekday:          day.Weekday().String(),
		IsWorking:        working,
		ExceptionApplied: exceptionApplied,
	}
	if working {
		resp.Start = window.Start.Format(entity.TimeOfDayLayout)
		resp.End = window.End.Format(entity.TimeOfDayLayout)
	}
	return resp, nil
}
