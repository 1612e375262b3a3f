package usecase

import (
	"context"
	"time"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/domain/scheduling"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AvailabilityUsecase interface {
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, req *dto.AvailableSlotsRequest) (*dto.AvailableSlotsResponse, error)
}

type availabilityUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	treatmentRepo   repository.TreatmentRepository
	roomRepo        repository.RoomRepository
	appointmentRepo repository.AppointmentRepository
	slotStep        time.Duration
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	treatmentRepo repository.TreatmentRepository,
	roomRepo repository.RoomRepository,
	appointmentRepo repository.AppointmentRepository,
	slotStep time.Duration,
) AvailabilityUsecase {
	if slotStep <= 0 {
		slotStep = scheduling.DefaultSlotStep
	}
	return &availabilityUsecase{
		db:              db,
		log:             log,
		doctorRepo:      doctorRepo,
		treatmentRepo:   treatmentRepo,
		roomRepo:        roomRepo,
		appointmentRepo: appointmentRepo,
		slotStep:        slotStep,
	}
}

// GetAvailableSlots lists the start times on a date where the doctor, and the
// room when given, are free for the requested duration.
func (u *availabilityUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, req *dto.AvailableSlotsRequest) (*dto.AvailableSlotsResponse, error) {
	d, err := entity.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	doctor, err := u.doctorRepo.FindByID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, storageError("find doctor", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	if req.TreatmentID != nil {
		treatment, err := u.treatmentRepo.FindByID(ctx, u.db, *req.TreatmentID)
		if err != nil {
			u.log.Warnf("Failed to find treatment by ID: %+v", err)
			return nil, storageError("find treatment", err)
		}
		if treatment == nil {
			return nil, ErrTreatmentNotFound
		}
		duration = treatment.DurationTime()
	}
	if duration <= 0 {
		return nil, ErrDurationRequired
	}

	if req.RoomID != nil {
		room, err := u.roomRepo.FindByID(ctx, u.db, *req.RoomID)
		if err != nil {
			u.log.Warnf("Failed to find room by ID: %+v", err)
			return nil, storageError("find room", err)
		}
		if room == nil {
			return nil, ErrRoomNotFound
		}
	}

	day := d.In(timeLocation)
	from, to := scheduling.DayBounds(day, day)
	active, err := u.appointmentRepo.FindActiveInRange(ctx, u.db, repository.ActiveRangeQuery{
		From:     from,
		To:       to,
		DoctorID: &doctorID,
		RoomID:   req.RoomID,
	})
	if err != nil {
		u.log.Warnf("Failed to load booked appointments: %+v", err)
		return nil, storageError("load booked appointments", err)
	}

	booked := make([]scheduling.Interval, len(active))
	for i, a := range active {
		booked[i] = scheduling.Interval{Start: a.StartTime, End: a.EndTime}
	}

	starts := scheduling.AvailableSlots(doctor.Schedule(), booked, day, duration, u.slotStep)
	slots := make([]dto.SlotResponse, len(starts))
	for i, s := range starts {
		slots[i] = dto.SlotResponse{StartTime: s, EndTime: s.Add(duration)}
	}

	return &dto.AvailableSlotsResponse{
		DoctorID:        doctorID,
		RoomID:          req.RoomID,
		Date:            d.String(),
		DurationMinutes: int(duration / time.Minute),
		StepMinutes:     int(u.slotStep / time.Minute),
		Slots:           slots,
	}, nil
}
