package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-scheduler/internal/domain/entity"
)

var (
	ErrInvalidWindow       = errors.New("end time must be after start time")
	ErrOutsideWorkingHours = errors.New("appointment is outside the doctor's working hours")
	ErrConflict            = errors.New("appointment conflicts with existing bookings")
)

// OutsideWorkingHoursError describes why a window was rejected against a schedule.
type OutsideWorkingHoursError struct {
	Date             entity.Date
	Weekday          time.Weekday
	ExceptionApplied bool
	// Window is nil when the doctor does not work that day.
	Window *entity.WorkingWindow
}

func (e *OutsideWorkingHoursError) Error() string {
	if e.Window == nil {
		return fmt.Sprintf("%s: doctor does not work on %s (%s)", ErrOutsideWorkingHours, e.Weekday, e.Date)
	}
	return fmt.Sprintf("%s: %s working hours are %s-%s",
		ErrOutsideWorkingHours, e.Date,
		e.Window.Start.Format(entity.TimeOfDayLayout), e.Window.End.Format(entity.TimeOfDayLayout))
}

func (e *OutsideWorkingHoursError) Unwrap() error {
	return ErrOutsideWorkingHours
}

// ConflictError carries every conflicting booking found for a requested window.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s with appointment %s", c.Type, c.AppointmentID))
	}
	return fmt.Sprintf("%s: %s", ErrConflict, strings.Join(parts, ", "))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
