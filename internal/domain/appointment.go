package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a booked service appointment with an employee
// StartTime is salon-local wall-clock time; the end is always derived from DurationMinutes
type Appointment struct {
	ID              int64
	EmployeeID      int64
	ServiceID       int64
	SalonID         int64
	ClientID        int64
	RequestID       *string // Клиентский ключ идемпотентности (опционально)
	StartTime       time.Time
	DurationMinutes int
	Status          AppointmentStatus
	Notes           *string

	CompletionNotes *string
	CompletedAt     *time.Time

	CancelReason *string
	CancelledBy  *Role
	CancelledAt  *time.Time

	Review *Review

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Review is the client's feedback attached to a completed appointment
type Review struct {
	Rating    int
	Comment   *string
	CreatedAt time.Time
}

// EndTime returns start_time + duration
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Interval returns the half-open [start, end) interval occupied by the appointment
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime()}
}

// IsActive returns true if the appointment still occupies its time range
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// HasReview returns true if a review was already attached
func (a *Appointment) HasReview() bool {
	return a.Review != nil
}

// IsOwnedBy returns true if the client booked this appointment
func (a *Appointment) IsOwnedBy(clientID int64) bool {
	return a.ClientID == clientID
}

// IsActive returns true for statuses that block the employee's time
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusCompleted
}

// IsValid returns true for known statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo describes the lifecycle: pending -> completed | cancelled, nothing else
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	return s == StatusPending && (target == StatusCompleted || target == StatusCancelled)
}

// ParseAppointmentStatus converts a string into a known status
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(s)
	return status, status.IsValid()
}

// StatusUpdate metadata written together with a status transition
type StatusUpdate struct {
	CompletionNotes *string
	CancelReason    *string
	CancelledBy     *Role
	At              time.Time
}
