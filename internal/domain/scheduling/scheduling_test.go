package scheduling

import (
	"errors"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-07-01 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.July, day, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{"disjoint", at(1, 9, 0), at(1, 10, 0), at(1, 11, 0), at(1, 12, 0), false},
		{"touching end", at(1, 9, 0), at(1, 10, 0), at(1, 10, 0), at(1, 11, 0), false},
		{"partial", at(1, 9, 0), at(1, 10, 30), at(1, 10, 0), at(1, 11, 0), true},
		{"contained", at(1, 9, 0), at(1, 12, 0), at(1, 10, 0), at(1, 11, 0), true},
		{"identical", at(1, 9, 0), at(1, 10, 0), at(1, 9, 0), at(1, 10, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd), "symmetry")
		})
	}
}

func TestValidateWindow(t *testing.T) {
	assert.NoError(t, ValidateWindow(at(1, 9, 0), at(1, 9, 1)))
	assert.ErrorIs(t, ValidateWindow(at(1, 9, 0), at(1, 9, 0)), ErrInvalidWindow)
	assert.ErrorIs(t, ValidateWindow(at(1, 10, 0), at(1, 9, 0)), ErrInvalidWindow)
}

func TestCheckWorkingHours(t *testing.T) {
	schedule := entity.DefaultWorkingSchedule()
	schedule.Exceptions = []entity.ScheduleException{
		{Date: entity.Date{Year: 2024, Month: time.July, Day: 2}, IsWorking: false},
	}

	assert.NoError(t, CheckWorkingHours(schedule, at(1, 9, 0), at(1, 17, 0)))

	err := CheckWorkingHours(schedule, at(1, 16, 30), at(1, 17, 30))
	require.ErrorIs(t, err, ErrOutsideWorkingHours)
	var outside *OutsideWorkingHoursError
	require.True(t, errors.As(err, &outside))
	require.NotNil(t, outside.Window)
	assert.Equal(t, time.Monday, outside.Weekday)
	assert.False(t, outside.ExceptionApplied)

	err = CheckWorkingHours(schedule, at(2, 10, 0), at(2, 11, 0))
	require.True(t, errors.As(err, &outside))
	assert.True(t, outside.ExceptionApplied)
	assert.Nil(t, outside.Window)

	// spans midnight into a day the window does not cover
	assert.ErrorIs(t, CheckWorkingHours(schedule, at(1, 16, 0), at(2, 9, 30)), ErrOutsideWorkingHours)
}

func TestTagConflicts(t *testing.T) {
	doctor, otherDoctor := uuid.New(), uuid.New()
	room, patient := uuid.New(), uuid.New()

	sameDoctor := entity.Appointment{ID: uuid.New(), DoctorID: doctor, PatientID: uuid.New(), StartTime: at(1, 9, 0), EndTime: at(1, 10, 0), Status: entity.AppointmentStatusBooked}
	sameRoomAndPatient := entity.Appointment{ID: uuid.New(), DoctorID: otherDoctor, PatientID: patient, RoomID: &room, StartTime: at(1, 9, 30), EndTime: at(1, 10, 30), Status: entity.AppointmentStatusOngoing}
	canceled := entity.Appointment{ID: uuid.New(), DoctorID: doctor, PatientID: patient, StartTime: at(1, 9, 0), EndTime: at(1, 10, 0), Status: entity.AppointmentStatusCanceled}
	touching := entity.Appointment{ID: uuid.New(), DoctorID: doctor, PatientID: patient, StartTime: at(1, 10, 0), EndTime: at(1, 11, 0), Status: entity.AppointmentStatusBooked}

	candidates := []entity.Appointment{sameDoctor, sameRoomAndPatient, canceled, touching}
	parties := Parties{DoctorID: doctor, RoomID: &room, PatientID: &patient}

	conflicts := TagConflicts(candidates, parties, at(1, 9, 0), at(1, 10, 0), nil)
	require.Len(t, conflicts, 3)
	assert.Equal(t, ConflictTypeDoctor, conflicts[0].Type)
	assert.Equal(t, sameDoctor.ID, conflicts[0].AppointmentID)
	assert.Equal(t, ConflictTypeRoom, conflicts[1].Type)
	assert.Equal(t, ConflictTypePatient, conflicts[2].Type)
	assert.Equal(t, sameRoomAndPatient.ID, conflicts[2].AppointmentID)

	excluded := TagConflicts(candidates, parties, at(1, 9, 0), at(1, 10, 0), &sameDoctor.ID)
	assert.Len(t, excluded, 2)

	noRoom := TagConflicts(candidates, Parties{DoctorID: doctor}, at(1, 9, 0), at(1, 10, 0), nil)
	require.Len(t, noRoom, 1)
	assert.Equal(t, ConflictTypeDoctor, noRoom[0].Type)

	assert.Empty(t, TagConflicts(candidates, parties, at(1, 12, 0), at(1, 13, 0), nil))
}

func TestConflictErrorMatchesSentinel(t *testing.T) {
	err := error(&ConflictError{Conflicts: []Conflict{{Type: ConflictTypeRoom, AppointmentID: uuid.New()}}})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "room with appointment")
}

func formatSlots(slots []time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format("15:04"))
	}
	return out
}

func TestAvailableSlots(t *testing.T) {
	schedule := entity.DefaultWorkingSchedule()
	schedule.WorkingDays.Monday.Hours = &entity.WorkingHours{Start: entity.NewTimeOfDay(9, 0), End: entity.NewTimeOfDay(11, 0)}
	booked := []Interval{{Start: at(1, 9, 30), End: at(1, 10, 0)}}

	slots := AvailableSlots(schedule, booked, at(1, 0, 0), 30*time.Minute, DefaultSlotStep)
	assert.Equal(t, []string{"09:00", "10:00", "10:15", "10:30"}, formatSlots(slots))

	for _, s := range slots {
		for _, b := range booked {
			assert.False(t, Overlaps(s, s.Add(30*time.Minute), b.Start, b.End))
		}
	}
}

func TestAvailableSlotsBoundary(t *testing.T) {
	schedule := entity.DefaultWorkingSchedule()
	schedule.WorkingDays.Monday.Hours = &entity.WorkingHours{Start: entity.NewTimeOfDay(9, 0), End: entity.NewTimeOfDay(10, 0)}

	assert.Equal(t, []string{"09:00"}, formatSlots(AvailableSlots(schedule, nil, at(1, 0, 0), 60*time.Minute, DefaultSlotStep)))
	assert.Empty(t, AvailableSlots(schedule, nil, at(1, 0, 0), 61*time.Minute, DefaultSlotStep))
}

func TestAvailableSlotsNonWorkingDay(t *testing.T) {
	schedule := entity.DefaultWorkingSchedule()
	slots := AvailableSlots(schedule, nil, at(7, 0, 0), 30*time.Minute, DefaultSlotStep)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)

	assert.Empty(t, AvailableSlots(schedule, nil, at(1, 0, 0), 0, DefaultSlotStep))
}

func TestDayBounds(t *testing.T) {
	from, to := DayBounds(at(1, 23, 0), at(2, 1, 0))
	assert.Equal(t, at(1, 0, 0), from)
	assert.Equal(t, at(3, 0, 0), to)

	from, to = DayBounds(at(1, 9, 0), at(1, 10, 0))
	assert.Equal(t, at(1, 0, 0), from)
	assert.Equal(t, at(2, 0, 0), to)
}
