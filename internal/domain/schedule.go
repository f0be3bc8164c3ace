package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// DayHours working window of one weekday, [Start, End)
type DayHours struct {
	Start types.TimeString
	End   types.TimeString
}

// Validate checks format and Start < End
func (d DayHours) Validate() error {
	if err := d.Start.Validate(); err != nil {
		return err
	}
	if err := d.End.Validate(); err != nil {
		return err
	}
	if !d.Start.IsBefore(d.End) {
		return ErrInvalidRange
	}
	return nil
}

// DurationMinutes returns the window length
func (d DayHours) DurationMinutes() int {
	start, errStart := d.Start.Minutes()
	end, errEnd := d.End.Minutes()
	if errStart != nil || errEnd != nil {
		return 0
	}
	return end - start
}

// WorkingHours weekly template of an employee
// A weekday missing from Days is a day off
type WorkingHours struct {
	EmployeeID int64
	Days       map[time.Weekday]DayHours
	UpdatedAt  time.Time
}

// ForDay returns the window for the weekday of date
func (w *WorkingHours) ForDay(date time.Time) (DayHours, bool) {
	if w == nil || w.Days == nil {
		return DayHours{}, false
	}
	hours, ok := w.Days[date.Weekday()]
	return hours, ok
}

// Validate checks every configured day
func (w *WorkingHours) Validate() error {
	for weekday, hours := range w.Days {
		if weekday < time.Sunday || weekday > time.Saturday {
			return ErrInvalidWeekday
		}
		if err := hours.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TimeOff a calendar date fully blocking an employee's availability
type TimeOff struct {
	EmployeeID int64
	Date       time.Time // Дата без времени (полночь в локации салона)
	Reason     string
	CreatedAt  time.Time
}
