package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	GetAllAppointments(ctx context.Context, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error)
	CheckConflicts(ctx context.Context, req *dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error)
}

type appointmentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	doctorRepo       repository.DoctorRepository
	patientRepo      repository.PatientRepository
	treatmentRepo    repository.TreatmentRepository
	roomRepo         repository.RoomRepository
	conflictDetector service.ConflictDetector
	locker           service.BookingLocker
	auditService     service.AuditService
	metrics          *metrics.Metrics
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	treatmentRepo repository.TreatmentRepository,
	roomRepo repository.RoomRepository,
	conflictDetector service.ConflictDetector,
	locker service.BookingLocker,
	auditService service.AuditService,
	m *metrics.Metrics,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		doctorRepo:       doctorRepo,
		patientRepo:      patientRepo,
		treatmentRepo:    treatmentRepo,
		roomRepo:         roomRepo,
		conflictDetector: conflictDetector,
		locker:           locker,
		auditService:     auditService,
		metrics:          m,
	}
}

// bookingRefs holds the entities an appointment points to.
type bookingRefs struct {
	doctor    *entity.Doctor
	patient   *entity.Patient
	treatment *entity.Treatment
	room      *entity.Room
}

// resolveRefs loads the referenced entities concurrently. The first missing
// entity or store failure wins.
func (u *appointmentUsecase) resolveRefs(ctx context.Context, doctorID, patientID, treatmentID uuid.UUID, roomID *uuid.UUID) (*bookingRefs, error) {
	refs := &bookingRefs{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		doctor, err := u.doctorRepo.FindByID(gctx, u.db, doctorID)
		if err != nil {
			return storageError("find doctor", err)
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
		refs.doctor = doctor
		return nil
	})
	g.Go(func() error {
		patient, err := u.patientRepo.FindByID(gctx, u.db, patientID)
		if err != nil {
			return storageError("find patient", err)
		}
		if patient == nil {
			return ErrPatientNotFound
		}
		refs.patient = patient
		return nil
	})
	g.Go(func() error {
		treatment, err := u.treatmentRepo.FindByID(gctx, u.db, treatmentID)
		if err != nil {
			return storageError("find treatment", err)
		}
		if treatment == nil {
			return ErrTreatmentNotFound
		}
		refs.treatment = treatment
		return nil
	})
	if roomID != nil {
		g.Go(func() error {
			room, err := u.roomRepo.FindByID(gctx, u.db, *roomID)
			if err != nil {
				return storageError("find room", err)
			}
			if room == nil {
				return ErrRoomNotFound
			}
			refs.room = room
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return refs, nil
}

// lock serializes writers on the same doctor, room and patient.
func (u *appointmentUsecase) lock(ctx context.Context, doctorID uuid.UUID, roomID *uuid.UUID, patientID uuid.UUID) (func(), error) {
	release, err := u.locker.Lock(ctx, service.AppointmentLockKeys(doctorID, roomID, &patientID)...)
	if err != nil {
		u.metrics.AppointmentRejected("lock_timeout")
		if errors.Is(err, service.ErrLockTimeout) {
			return nil, ErrBookingBusy
		}
		return nil, storageError("acquire booking lock", err)
	}
	return release, nil
}

// checkSlot runs the working hours and conflict checks inside tx.
func (u *appointmentUsecase) checkSlot(ctx context.Context, tx *gorm.DB, doctor *entity.Doctor, q service.ConflictQuery) error {
	if err := scheduling.CheckWorkingHours(doctor.Schedule(), q.Start, q.End); err != nil {
		u.metrics.AppointmentRejected("outside_working_hours")
		return err
	}

	conflicts, err := u.conflictDetector.FindConflicts(ctx, tx, q)
	if err != nil {
		return storageError("find conflicts", err)
	}
	if len(conflicts) > 0 {
		u.metrics.AppointmentRejected("conflict")
		for _, c := range conflicts {
			u.metrics.ConflictDetected(string(c.Type))
		}
		return &scheduling.ConflictError{Conflicts: conflicts}
	}
	return nil
}

// storeConflict builds the conflict error after the store rejected a write
// through its overlap constraint. The rejected transaction must already be
// rolled back.
func (u *appointmentUsecase) storeConflict(ctx context.Context, q service.ConflictQuery) error {
	u.metrics.AppointmentRejected("conflict")

	conflicts, err := u.conflictDetector.FindConflicts(ctx, u.db, q)
	if err != nil {
		u.log.Warnf("Failed to load conflicts after overlap violation: %+v", err)
		return &scheduling.ConflictError{}
	}
	for _, c := range conflicts {
		u.metrics.ConflictDetected(string(c.Type))
	}
	return &scheduling.ConflictError{Conflicts: conflicts}
}

// checkUpdate applies the status and reschedule rules to the stored state.
func checkUpdate(a *entity.Appointment, req *dto.UpdateAppointmentRequest) error {
	if req.Status != nil && !a.CanTransitionTo(entity.AppointmentStatus(*req.Status)) {
		return ErrInvalidStatusTransition
	}
	if (req.StartTime != nil || req.EndTime != nil) && a.IsCanceled() {
		return ErrAppointmentCanceled
	}
	return nil
}

// mergeWindow applies the requested times over the stored ones, on the
// clinic clock.
func mergeWindow(a *entity.Appointment, req *dto.UpdateAppointmentRequest) (time.Time, time.Time) {
	start, end := a.StartTime, a.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	return start.In(timeLocation), end.In(timeLocation)
}

func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	start := req.StartTime.In(timeLocation)
	if req.EndTime != nil {
		if err := scheduling.ValidateWindow(start, req.EndTime.In(timeLocation)); err != nil {
			u.metrics.AppointmentRejected("invalid_window")
			return nil, err
		}
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	refs, err := u.resolveRefs(ctx, req.DoctorID, req.PatientID, req.TreatmentID, req.RoomID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			u.log.Warnf("Failed to resolve appointment references: %+v", err)
		}
		return nil, err
	}

	end := start.Add(refs.treatment.DurationTime())
	if req.EndTime != nil {
		end = req.EndTime.In(timeLocation)
	}
	if err := scheduling.ValidateWindow(start, end); err != nil {
		u.metrics.AppointmentRejected("invalid_window")
		return nil, err
	}

	price := refs.treatment.Price
	if req.Price != nil {
		price = *req.Price
	}

	paymentStatus := entity.PaymentStatusUnpaid
	if req.PaymentStatus != "" {
		paymentStatus = entity.PaymentStatus(req.PaymentStatus)
	}

	release, err := u.lock(ctx, req.DoctorID, req.RoomID, req.PatientID)
	if err != nil {
		return nil, err
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	query := service.ConflictQuery{
		DoctorID:  req.DoctorID,
		RoomID:    req.RoomID,
		PatientID: &req.PatientID,
		Start:     start,
		End:       end,
	}
	if err := u.checkSlot(ctx, tx, refs.doctor, query); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		DoctorID:      req.DoctorID,
		PatientID:     req.PatientID,
		TreatmentID:   req.TreatmentID,
		RoomID:        req.RoomID,
		StartTime:     start,
		EndTime:       end,
		Price:         price,
		Status:        entity.AppointmentStatusBooked,
		PaymentStatus: paymentStatus,
		Note:          req.Note,
	}

	if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		if isExclusionViolation(err) {
			tx.Rollback()
			return nil, u.storeConflict(ctx, query)
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, storageError("create appointment", err)
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionAppointmentCreate, entity.AuditEntityAppointment, appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		return nil, storageError("write audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError("commit appointment", err)
	}

	u.metrics.AppointmentCreated()
	u.log.WithFields(logrus.Fields{
		"appointment_id": appointment.ID,
		"doctor_id":      appointment.DoctorID,
		"start_time":     appointment.StartTime,
	}).Info("Appointment booked")

	appointment.Doctor = refs.doctor
	appointment.Patient = refs.patient
	appointment.Treatment = refs.treatment
	appointment.Room = refs.room
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	existing, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment by ID: %+v", err)
		return nil, storageError("find appointment", err)
	}
	if existing == nil {
		return nil, ErrAppointmentNotFound
	}

	if err := checkUpdate(existing, req); err != nil {
		return nil, err
	}

	reschedule := req.StartTime != nil || req.EndTime != nil
	if reschedule {
		if err := scheduling.ValidateWindow(mergeWindow(existing, req)); err != nil {
			u.metrics.AppointmentRejected("invalid_window")
			return nil, err
		}
	}

	// Status changes take the lock too, so the reload below sees every
	// committed change to this appointment.
	release, err := u.lock(ctx, existing.DoctorID, existing.RoomID, existing.PatientID)
	if err != nil {
		return nil, err
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	current, err := u.appointmentRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to reload appointment: %+v", err)
		return nil, storageError("find appointment", err)
	}
	if current == nil {
		return nil, ErrAppointmentNotFound
	}
	if err := checkUpdate(current, req); err != nil {
		return nil, err
	}

	start, end := mergeWindow(current, req)
	query := service.ConflictQuery{
		DoctorID:             current.DoctorID,
		RoomID:               current.RoomID,
		PatientID:            &current.PatientID,
		Start:                start,
		End:                  end,
		ExcludeAppointmentID: &current.ID,
	}
	if reschedule {
		if err := scheduling.ValidateWindow(start, end); err != nil {
			u.metrics.AppointmentRejected("invalid_window")
			return nil, err
		}
		if current.Doctor == nil {
			return nil, ErrDoctorNotFound
		}
		if err := u.checkSlot(ctx, tx, current.Doctor, query); err != nil {
			return nil, err
		}
	}

	before := converter.AppointmentToResponse(current)

	current.StartTime = start
	current.EndTime = end
	if req.Status != nil {
		current.Status = entity.AppointmentStatus(*req.Status)
	}
	if req.PaymentStatus != nil {
		current.PaymentStatus = entity.PaymentStatus(*req.PaymentStatus)
	}
	if req.Note != nil {
		current.Note = *req.Note
	}

	if err := u.appointmentRepo.Update(ctx, tx, current); err != nil {
		if isExclusionViolation(err) {
			tx.Rollback()
			return nil, u.storeConflict(ctx, query)
		}
		u.log.Warnf("Failed to update appointment: %+v", err)
		return nil, storageError("update appointment", err)
	}

	action := entity.AuditActionAppointmentUpdate
	if current.IsCanceled() && before.Status != string(entity.AppointmentStatusCanceled) {
		action = entity.AuditActionAppointmentCancel
	}
	after := converter.AppointmentToResponse(current)
	if err := u.auditService.LogUpdate(ctx, tx, action, entity.AuditEntityAppointment, current.ID.String(), before, after); err != nil {
		return nil, storageError("write audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError("commit appointment", err)
	}

	return after, nil
}

func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.appointmentRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment by ID: %+v", err)
		return storageError("find appointment", err)
	}
	if existing == nil {
		return ErrAppointmentNotFound
	}

	affected, err := u.appointmentRepo.Delete(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete appointment: %+v", err)
		return storageError("delete appointment", err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionAppointmentDelete, entity.AuditEntityAppointment, id.String(), converter.AppointmentToResponse(existing)); err != nil {
		return storageError("write audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return storageError("commit appointment", err)
	}
	return nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment by ID: %+v", err)
		return nil, storageError("find appointment", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAllAppointments(ctx context.Context, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error) {
	filter, err := appointmentFilterFromRequest(req)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, storageError("list appointments", err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// CheckConflicts reports the conflicts a window would have without booking it.
func (u *appointmentUsecase) CheckConflicts(ctx context.Context, req *dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error) {
	start, end := req.StartTime.In(timeLocation), req.EndTime.In(timeLocation)
	if err := scheduling.ValidateWindow(start, end); err != nil {
		return nil, err
	}

	conflicts, err := u.conflictDetector.FindConflicts(ctx, u.db, service.ConflictQuery{
		DoctorID:             req.DoctorID,
		RoomID:               req.RoomID,
		PatientID:            req.PatientID,
		Start:                start,
		End:                  end,
		ExcludeAppointmentID: req.ExcludeAppointmentID,
	})
	if err != nil {
		return nil, storageError("find conflicts", err)
	}

	return &dto.ConflictCheckResponse{
		HasConflicts: len(conflicts) > 0,
		Conflicts:    converter.ConflictsToResponses(conflicts),
	}, nil
}

// timeLocation anchors calendar dates received as "YYYY-MM-DD".
var timeLocation = time.Local

// appointmentFilterFromRequest turns inclusive calendar dates into a half-open
// [start_date 00:00, end_date+1 00:00) range.
func appointmentFilterFromRequest(req *dto.AppointmentListRequest) (entity.AppointmentFilter, error) {
	var filter entity.AppointmentFilter
	if req == nil {
		return filter, nil
	}

	if req.StartDate != "" {
		d, err := entity.ParseDate(req.StartDate)
		if err != nil {
			return filter, ErrInvalidDateFormat
		}
		from := d.In(timeLocation)
		filter.StartDate = &from
	}
	if req.EndDate != "" {
		d, err := entity.ParseDate(req.EndDate)
		if err != nil {
			return filter, ErrInvalidDateFormat
		}
		to := d.In(timeLocation).AddDate(0, 0, 1)
		filter.EndDate = &to
	}

	parseID := func(s string) (*uuid.UUID, error) {
		if s == "" {
			return nil, nil
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		return &id, nil
	}

	var err error
	if filter.DoctorID, err = parseID(req.DoctorID); err != nil {
		return filter, err
	}
	if filter.PatientID, err = parseID(req.PatientID); err != nil {
		return filter, err
	}
	if filter.RoomID, err = parseID(req.RoomID); err != nil {
		return filter, err
	}
	filter.Status = entity.AppointmentStatus(req.Status)
	return filter, nil
}
