package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeOfDay       = errors.New("invalid time of day, use HH:MM")
	ErrInvalidDate            = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidWorkingHours    = errors.New("working hours start must be before end")
	ErrMissingWorkingHours    = errors.New("working day requires hours")
	ErrDuplicateExceptionDate = errors.New("duplicate schedule exception date")
)

const (
	TimeOfDayLayout = "15:04"
	DateLayout      = "2006-01-02"
)

// TimeOfDay is a wall-clock time stored as minutes since midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses a 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(TimeOfDayLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On anchors the time of day to the calendar date of d, in d's location.
func (t TimeOfDay) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, d.Location())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidTimeOfDay
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// In returns midnight of the date in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WorkingHours is a [Start, End) time-of-day range.
type WorkingHours struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

func (h WorkingHours) Validate() error {
	if h.Start >= h.End {
		return fmt.Errorf("%w: %s-%s", ErrInvalidWorkingHours, h.Start, h.End)
	}
	return nil
}

// WorkingDay is the default schedule of one weekday. Hours is set iff IsWorking.
type WorkingDay struct {
	IsWorking bool          `json:"is_working"`
	Hours     *WorkingHours `json:"hours,omitempty"`
}

// WeeklySchedule holds one WorkingDay per weekday.
type WeeklySchedule struct {
	Monday    WorkingDay `json:"monday"`
	Tuesday   WorkingDay `json:"tuesday"`
	Wednesday WorkingDay `json:"wednesday"`
	Thursday  WorkingDay `json:"thursday"`
	Friday    WorkingDay `json:"friday"`
	Saturday  WorkingDay `json:"saturday"`
	Sunday    WorkingDay `json:"sunday"`
}

// Day returns the schedule for the given weekday.
func (w WeeklySchedule) Day(day time.Weekday) WorkingDay {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return w.Sunday
	}
}

func (w *WeeklySchedule) days() []*WorkingDay {
	return []*WorkingDay{&w.Monday, &w.Tuesday, &w.Wednesday, &w.Thursday, &w.Friday, &w.Saturday, &w.Sunday}
}

// ScheduleException overrides the weekday default on one calendar date.
// A working exception without hours keeps the weekday default hours.
type ScheduleException struct {
	Date      Date          `json:"date"`
	IsWorking bool          `json:"is_working"`
	Hours     *WorkingHours `json:"hours,omitempty"`
}

// WorkingWindow is a working-hours range anchored to a calendar date.
type WorkingWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether [start, end) lies fully inside the window.
func (w WorkingWindow) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// WorkingSchedule is a doctor's calendar: weekday defaults plus date exceptions.
type WorkingSchedule struct {
	WorkingDays WeeklySchedule      `json:"working_days"`
	Exceptions  []ScheduleException `json:"working_days_exceptions"`
}

// DefaultWorkingSchedule is Monday to Friday 09:00-17:00, weekends off.
func DefaultWorkingSchedule() WorkingSchedule {
	office := func() WorkingDay {
		return WorkingDay{IsWorking: true, Hours: &WorkingHours{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(17, 0)}}
	}
	return WorkingSchedule{
		WorkingDays: WeeklySchedule{
			Monday:    office(),
			Tuesday:   office(),
			Wednesday: office(),
			Thursday:  office(),
			Friday:    office(),
			Saturday:  WorkingDay{},
			Sunday:    WorkingDay{},
		},
		Exceptions: []ScheduleException{},
	}
}

// ExceptionFor returns the exception registered for the calendar date of t, if any.
func (s WorkingSchedule) ExceptionFor(t time.Time) (ScheduleException, bool) {
	date := DateOf(t)
	for _, ex := range s.Exceptions {
		if ex.Date == date {
			return ex, true
		}
	}
	return ScheduleException{}, false
}

// EffectiveWindow resolves the working window on the calendar date of date.
// Exceptions take precedence over the weekday default; a working day without
// hours yields no window.
func (s WorkingSchedule) EffectiveWindow(date time.Time) (WorkingWindow, bool) {
	if ex, ok := s.ExceptionFor(date); ok {
		if !ex.IsWorking {
			return WorkingWindow{}, false
		}
		if ex.Hours != nil {
			return anchor(*ex.Hours, date), true
		}
	}

	day := s.WorkingDays.Day(date.Weekday())
	if !day.IsWorking || day.Hours == nil {
		return WorkingWindow{}, false
	}
	return anchor(*day.Hours, date), true
}

func anchor(h WorkingHours, date time.Time) WorkingWindow {
	return WorkingWindow{Start: h.Start.On(date), End: h.End.On(date)}
}

// Normalize drops hours from non-working days and nil-guards the exception list.
func (s *WorkingSchedule) Normalize() {
	for _, day := range s.WorkingDays.days() {
		if !day.IsWorking {
			day.Hours = nil
		}
	}
	if s.Exceptions == nil {
		s.Exceptions = []ScheduleException{}
	}
	for i := range s.Exceptions {
		if !s.Exceptions[i].IsWorking {
			s.Exceptions[i].Hours = nil
		}
	}
}

// Validate checks hour ranges and rejects duplicate exception dates.
func (s WorkingSchedule) Validate() error {
	for i, day := range s.WorkingDays.days() {
		if !day.IsWorking {
			continue
		}
		if day.Hours == nil {
			return fmt.Errorf("%w: %s", ErrMissingWorkingHours, time.Weekday((i+1)%7))
		}
		if err := day.Hours.Validate(); err != nil {
			return err
		}
	}

	seen := make(map[Date]struct{}, len(s.Exceptions))
	for _, ex := range s.Exceptions {
		if ex.Date.IsZero() {
			return ErrInvalidDate
		}
		if _, dup := seen[ex.Date]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateExceptionDate, ex.Date)
		}
		seen[ex.Date] = struct{}{}
		if ex.IsWorking && ex.Hours != nil {
			if err := ex.Hours.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
