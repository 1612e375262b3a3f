package usecase

import (
	"context"
	"io"
	"testing"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestPatientUsecase_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewPatientUsecase(f.db, quietLogger(), repository.NewPatientRepository())

	created, err := uc.CreatePatient(ctx, &dto.PatientRequest{FullName: "Agus Pratama", Phone: "0833333333", DateOfBirth: "1990-04-12"})
	require.NoError(t, err)
	assert.Equal(t, "1990-04-12", created.DateOfBirth)

	_, err = uc.CreatePatient(ctx, &dto.PatientRequest{FullName: "Agus", DateOfBirth: "12/04/1990"})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	list, err := uc.GetAllPatients(ctx, "agus")
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, created.ID, list.Patients[0].ID)

	all, err := uc.GetAllPatients(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)

	updated, err := uc.UpdatePatient(ctx, created.ID, &dto.PatientRequest{FullName: "Agus P.", Gender: "M"})
	require.NoError(t, err)
	assert.Equal(t, "Agus P.", updated.FullName)
	assert.Empty(t, updated.DateOfBirth)

	_, err = uc.UpdatePatient(ctx, uuid.New(), &dto.PatientRequest{FullName: "Nobody"})
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, uc.DeletePatient(ctx, created.ID))
	_, err = uc.GetPatient(ctx, created.ID)
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.ErrorIs(t, uc.DeletePatient(ctx, created.ID), ErrPatientNotFound)
}

func TestSpecializationRoomTreatment_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	log := quietLogger()
	specializationRepo := repository.NewSpecializationRepository()

	specializations := NewSpecializationUsecase(f.db, log, specializationRepo)
	rooms := NewRoomUsecase(f.db, log, repository.NewRoomRepository(), specializationRepo)
	treatments := NewTreatmentUsecase(f.db, log, repository.NewTreatmentRepository(), specializationRepo)

	dental, err := specializations.CreateSpecialization(ctx, &dto.SpecializationRequest{Name: "Dentistry"})
	require.NoError(t, err)

	room, err := rooms.CreateRoom(ctx, &dto.RoomRequest{Name: "Room B", SpecializationIDs: []uuid.UUID{dental.ID}})
	require.NoError(t, err)
	require.Len(t, room.Specializations, 1)
	assert.Equal(t, dental.ID, room.Specializations[0].ID)

	_, err = rooms.CreateRoom(ctx, &dto.RoomRequest{Name: "Room C", SpecializationIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, ErrSpecializationNotFound)

	room, err = rooms.UpdateRoom(ctx, room.ID, &dto.RoomRequest{Name: "Room B2"})
	require.NoError(t, err)
	assert.Equal(t, "Room B2", room.Name)
	assert.Empty(t, room.Specializations)

	fetched, err := rooms.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Specializations)

	treatment, err := treatments.CreateTreatment(ctx, &dto.TreatmentRequest{
		Name:             "Root canal",
		SpecializationID: &dental.ID,
		Duration:         90,
		Price:            decimal.NewFromInt(900000),
	})
	require.NoError(t, err)
	require.NotNil(t, treatment.Specialization)
	assert.Equal(t, "Dentistry", treatment.Specialization.Name)

	_, err = treatments.CreateTreatment(ctx, &dto.TreatmentRequest{Name: "Refund", Duration: 10, Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	missing := uuid.New()
	_, err = treatments.CreateTreatment(ctx, &dto.TreatmentRequest{Name: "Orphan", SpecializationID: &missing, Duration: 10})
	assert.ErrorIs(t, err, ErrSpecializationNotFound)

	treatment, err = treatments.UpdateTreatment(ctx, treatment.ID, &dto.TreatmentRequest{Name: "Root canal", Duration: 120, Price: decimal.NewFromInt(950000)})
	require.NoError(t, err)
	assert.Equal(t, 120, treatment.Duration)
	assert.Nil(t, treatment.SpecializationID)

	list, err := treatments.GetAllTreatments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)

	require.NoError(t, treatments.DeleteTreatment(ctx, treatment.ID))
	_, err = treatments.GetTreatment(ctx, treatment.ID)
	assert.ErrorIs(t, err, ErrTreatmentNotFound)

	require.NoError(t, rooms.DeleteRoom(ctx, room.ID))
	assert.ErrorIs(t, rooms.DeleteRoom(ctx, room.ID), ErrRoomNotFound)

	renamed, err := specializations.UpdateSpecialization(ctx, dental.ID, &dto.SpecializationRequest{Name: "Dental care"})
	require.NoError(t, err)
	assert.Equal(t, "Dental care", renamed.Name)

	require.NoError(t, specializations.DeleteSpecialization(ctx, dental.ID))
	_, err = specializations.GetSpecialization(ctx, dental.ID)
	assert.ErrorIs(t, err, ErrSpecializationNotFound)
}
