package service

import (
	"context"
	"fmt"
	"time"

	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/domain/scheduling"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ConflictQuery describes a requested appointment window. RoomID and PatientID
// are optional; ExcludeAppointmentID skips the appointment being rescheduled.
type ConflictQuery struct {
	DoctorID             uuid.UUID
	RoomID               *uuid.UUID
	PatientID            *uuid.UUID
	Start                time.Time
	End                  time.Time
	ExcludeAppointmentID *uuid.UUID
}

type ConflictDetector interface {
	FindConflicts(ctx context.Context, db *gorm.DB, q ConflictQuery) ([]scheduling.Conflict, error)
	HasConflicts(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, roomID *uuid.UUID, start, end time.Time) (bool, error)
}

type conflictDetector struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
}

func NewConflictDetector(log *logrus.Logger, appointmentRepo repository.AppointmentRepository) ConflictDetector {
	return &conflictDetector{
		log:             log,
		appointmentRepo: appointmentRepo,
	}
}

// FindConflicts lists every (party, appointment) pair blocking the window.
// Candidates are the active appointments on the calendar days the window
// touches. An empty result means the window is free.
func (d *conflictDetector) FindConflicts(ctx context.Context, db *gorm.DB, q ConflictQuery) ([]scheduling.Conflict, error) {
	from, to := scheduling.DayBounds(q.Start, q.End)

	candidates, err := d.appointmentRepo.FindActiveInRange(ctx, db, repository.ActiveRangeQuery{
		From:      from,
		To:        to,
		DoctorID:  &q.DoctorID,
		RoomID:    q.RoomID,
		PatientID: q.PatientID,
	})
	if err != nil {
		d.log.Warnf("Failed to load conflict candidates: %+v", err)
		return nil, fmt.Errorf("load conflict candidates: %w", err)
	}

	parties := scheduling.Parties{DoctorID: q.DoctorID, RoomID: q.RoomID, PatientID: q.PatientID}
	return scheduling.TagConflicts(candidates, parties, q.Start, q.End, q.ExcludeAppointmentID), nil
}

// HasConflicts checks only the doctor and room dimensions.
func (d *conflictDetector) HasConflicts(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, roomID *uuid.UUID, start, end time.Time) (bool, error) {
	conflicts, err := d.FindConflicts(ctx, db, ConflictQuery{
		DoctorID: doctorID,
		RoomID:   roomID,
		Start:    start,
		End:      end,
	})
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}
