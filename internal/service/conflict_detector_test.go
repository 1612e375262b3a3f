package service

import (
	"context"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/infrastructure/database"
	"clinic-scheduler/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.July, 1, hour, minute, 0, 0, time.UTC)
}

func TestConflictDetector(t *testing.T) {
	db, err := database.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	ctx := context.Background()

	doctorID, otherDoctorID := uuid.New(), uuid.New()
	roomID := uuid.New()
	patientID := uuid.New()

	book := func(doctor uuid.UUID, room *uuid.UUID, patient uuid.UUID, start, end time.Time, status entity.AppointmentStatus) *entity.Appointment {
		a := &entity.Appointment{
			DoctorID:    doctor,
			PatientID:   patient,
			TreatmentID: uuid.New(),
			RoomID:      room,
			StartTime:   start,
			EndTime:     end,
			Price:       decimal.Zero,
			Status:      status,
		}
		require.NoError(t, db.Omit("Doctor", "Patient", "Treatment", "Room").Create(a).Error)
		return a
	}

	doctorBusy := book(doctorID, nil, uuid.New(), at(9, 0), at(10, 0), entity.AppointmentStatusBooked)
	roomBusy := book(otherDoctorID, &roomID, uuid.New(), at(11, 0), at(12, 0), entity.AppointmentStatusOngoing)
	book(doctorID, &roomID, patientID, at(13, 0), at(14, 0), entity.AppointmentStatusCanceled)
	patientBusy := book(otherDoctorID, nil, patientID, at(15, 0), at(16, 0), entity.AppointmentStatusBooked)

	detector := NewConflictDetector(newTestLogger(), repository.NewAppointmentRepository())

	tests := []struct {
		name  string
		query ConflictQuery
		want  map[scheduling.ConflictType]uuid.UUID
	}{
		{
			name:  "doctor overlap",
			query: ConflictQuery{DoctorID: doctorID, Start: at(9, 30), End: at(10, 30)},
			want:  map[scheduling.ConflictType]uuid.UUID{scheduling.ConflictTypeDoctor: doctorBusy.ID},
		},
		{
			name:  "touching is free",
			query: ConflictQuery{DoctorID: doctorID, Start: at(10, 0), End: at(11, 0)},
			want:  map[scheduling.ConflictType]uuid.UUID{},
		},
		{
			name:  "room overlap with another doctor",
			query: ConflictQuery{DoctorID: doctorID, RoomID: &roomID, Start: at(11, 30), End: at(12, 30)},
			want:  map[scheduling.ConflictType]uuid.UUID{scheduling.ConflictTypeRoom: roomBusy.ID},
		},
		{
			name:  "canceled does not block",
			query: ConflictQuery{DoctorID: doctorID, RoomID: &roomID, PatientID: &patientID, Start: at(13, 0), End: at(14, 0)},
			want:  map[scheduling.ConflictType]uuid.UUID{},
		},
		{
			name:  "patient overlap",
			query: ConflictQuery{DoctorID: doctorID, PatientID: &patientID, Start: at(15, 30), End: at(16, 30)},
			want:  map[scheduling.ConflictType]uuid.UUID{scheduling.ConflictTypePatient: patientBusy.ID},
		},
		{
			name:  "excluded appointment",
			query: ConflictQuery{DoctorID: doctorID, Start: at(9, 0), End: at(10, 0), ExcludeAppointmentID: &doctorBusy.ID},
			want:  map[scheduling.ConflictType]uuid.UUID{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflicts, err := detector.FindConflicts(ctx, db, tt.query)
			require.NoError(t, err)
			require.Len(t, conflicts, len(tt.want))
			for _, c := range conflicts {
				assert.Equal(t, tt.want[c.Type], c.AppointmentID)
			}
		})
	}

	busy, err := detector.HasConflicts(ctx, db, doctorID, nil, at(9, 0), at(9, 15))
	require.NoError(t, err)
	assert.True(t, busy)

	busy, err = detector.HasConflicts(ctx, db, doctorID, nil, at(16, 0), at(17, 0))
	require.NoError(t, err)
	assert.False(t, busy)
}
