package scheduling

import (
	"time"

	"clinic-scheduler/internal/domain/entity"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share any instant.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

// ValidateWindow rejects empty and inverted windows.
func ValidateWindow(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidWindow
	}
	return nil
}

// CheckWorkingHours verifies that [start, end) fits in the doctor's working
// window on the calendar date of start.
func CheckWorkingHours(schedule entity.WorkingSchedule, start, end time.Time) error {
	_, exceptionApplied := schedule.ExceptionFor(start)
	window, ok := schedule.EffectiveWindow(start)
	if ok && window.Contains(start, end) {
		return nil
	}

	err := &OutsideWorkingHoursError{
		Date:             entity.DateOf(start),
		Weekday:          start.Weekday(),
		ExceptionApplied: exceptionApplied,
	}
	if ok {
		err.Window = &window
	}
	return err
}

// DayBounds returns the calendar-day range covering [start, end), from midnight
// of start's date to the midnight after end's date.
func DayBounds(start, end time.Time) (time.Time, time.Time) {
	from := entity.DateOf(start).In(start.Location())
	to := entity.DateOf(end).In(end.Location()).AddDate(0, 0, 1)
	if to.Before(from.AddDate(0, 0, 1)) {
		to = from.AddDate(0, 0, 1)
	}
	return from, to
}
