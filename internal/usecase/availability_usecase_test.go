package usecase

import (
	"context"
	"testing"

	"clinic-scheduler/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAvailableSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.appointments.CreateAppointment(ctx, f.request(f.patient.ID, monday(9, 0), monday(10, 0)))
	require.NoError(t, err)

	resp, err := f.availability.GetAvailableSlots(ctx, f.doctor.ID, &dto.AvailableSlotsRequest{
		Date:        "2024-07-01",
		TreatmentID: &f.treatment.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, 15, resp.StepMinutes)
	require.NotEmpty(t, resp.Slots)
	// 10:00 to 16:30 every 15 minutes.
	assert.Len(t, resp.Slots, 27)
	assert.True(t, resp.Slots[0].StartTime.Equal(monday(10, 0)))
	assert.True(t, resp.Slots[len(resp.Slots)-1].EndTime.Equal(monday(17, 0)))
	for _, s := range resp.Slots {
		assert.False(t, s.StartTime.Before(monday(10, 0)), "slot overlaps the booking")
	}
}

func TestGetAvailableSlots_DayOffAndErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.availability.GetAvailableSlots(ctx, f.doctor.ID, &dto.AvailableSlotsRequest{
		Date:            "2024-07-06",
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)

	_, err = f.availability.GetAvailableSlots(ctx, f.doctor.ID, &dto.AvailableSlotsRequest{Date: "2024-07-01"})
	assert.ErrorIs(t, err, ErrDurationRequired)

	_, err = f.availability.GetAvailableSlots(ctx, uuid.New(), &dto.AvailableSlotsRequest{Date: "2024-07-01", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	_, err = f.availability.GetAvailableSlots(ctx, f.doctor.ID, &dto.AvailableSlotsRequest{Date: "2024/07/01", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}
