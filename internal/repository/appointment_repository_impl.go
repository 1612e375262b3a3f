package repository

import (
	"context"
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).
		Preload("Doctor").Preload("Patient").Preload("Treatment").Preload("Room").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindAll returns appointments matching every set field of filter, ordered by start time.
func (r *appointmentRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := db.WithContext(ctx).
		Preload("Doctor").Preload("Patient").Preload("Treatment").Preload("Room")

	where, args, err := appointmentFilterPredicate(filter).ToSql()
	if err != nil {
		return nil, err
	}
	if where != "" {
		query = query.Where(where, args...)
	}

	var appointments []entity.Appointment
	if err := query.Order("start_time ASC, id ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindActiveInRange loads the non-canceled appointments that touch [From, To)
// and share the doctor, the room or the patient.
func (r *appointmentRepository) FindActiveInRange(ctx context.Context, db *gorm.DB, q domainRepo.ActiveRangeQuery) ([]entity.Appointment, error) {
	where, args, err := activeRangePredicate(q).ToSql()
	if err != nil {
		return nil, err
	}

	var appointments []entity.Appointment
	err = db.WithContext(ctx).
		Where(where, args...).
		Order("start_time ASC, id ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(appointment).Error
}

func (r *appointmentRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}

// uuid.UUID is a byte array, which squirrel would expand into an IN list,
// so ids are bound as strings.
func appointmentFilterPredicate(filter entity.AppointmentFilter) sq.And {
	pred := sq.And{}
	if filter.StartDate != nil {
		pred = append(pred, sq.GtOrEq{"start_time": *filter.StartDate})
	}
	if filter.EndDate != nil {
		pred = append(pred, sq.Lt{"start_time": *filter.EndDate})
	}
	if filter.DoctorID != nil {
		pred = append(pred, sq.Eq{"doctor_id": filter.DoctorID.String()})
	}
	if filter.PatientID != nil {
		pred = append(pred, sq.Eq{"patient_id": filter.PatientID.String()})
	}
	if filter.RoomID != nil {
		pred = append(pred, sq.Eq{"room_id": filter.RoomID.String()})
	}
	if filter.Status != "" {
		pred = append(pred, sq.Eq{"status": string(filter.Status)})
	}
	return pred
}

func activeRangePredicate(q domainRepo.ActiveRangeQuery) sq.And {
	parties := sq.Or{}
	if q.DoctorID != nil {
		parties = append(parties, sq.Eq{"doctor_id": q.DoctorID.String()})
	}
	if q.RoomID != nil {
		parties = append(parties, sq.Eq{"room_id": q.RoomID.String()})
	}
	if q.PatientID != nil {
		parties = append(parties, sq.Eq{"patient_id": q.PatientID.String()})
	}

	return sq.And{
		sq.NotEq{"status": string(entity.AppointmentStatusCanceled)},
		sq.Lt{"start_time": q.To},
		sq.Gt{"end_time": q.From},
		parties,
	}
}
