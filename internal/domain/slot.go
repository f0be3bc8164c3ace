package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// Slot represents a start time available for booking
type Slot struct {
	Start           time.Time
	DurationMinutes int
}

// StartTime returns the wall-clock start, e.g. "10:30"
func (s Slot) StartTime() types.TimeString {
	return types.NewTimeString(s.Start)
}

// End returns the end of the slot
func (s Slot) End() time.Time {
	return s.Start.Add(time.Duration(s.DurationMinutes) * time.Minute)
}
