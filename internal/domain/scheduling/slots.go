package scheduling

import (
	"time"

	"clinic-scheduler/internal/domain/entity"
)

// DefaultSlotStep is the granularity of candidate start times.
const DefaultSlotStep = 15 * time.Minute

// AvailableSlots enumerates start times on date where an appointment of the
// given duration fits inside the working window and overlaps none of booked.
// Candidates are window start plus multiples of step.
func AvailableSlots(schedule entity.WorkingSchedule, booked []Interval, date time.Time, duration, step time.Duration) []time.Time {
	slots := []time.Time{}
	if duration <= 0 {
		return slots
	}
	if step <= 0 {
		step = DefaultSlotStep
	}

	window, ok := schedule.EffectiveWindow(date)
	if !ok {
		return slots
	}

	for cursor := window.Start; !cursor.Add(duration).After(window.End); cursor = cursor.Add(step) {
		candidate := Interval{Start: cursor, End: cursor.Add(duration)}
		free := true
		for _, b := range booked {
			if candidate.Overlaps(b) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, cursor)
		}
	}
	return slots
}
