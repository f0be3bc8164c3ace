package domain

import "time"

// EventType тип события жизненного цикла записи
type EventType string

const (
	EventAppointmentBooked    EventType = "appointment.booked"
	EventAppointmentCompleted EventType = "appointment.completed"
	EventAppointmentCancelled EventType = "appointment.cancelled"
	EventAppointmentReviewed  EventType = "appointment.reviewed"
)

// AppointmentEvent notification payload sent after a committed change
type AppointmentEvent struct {
	ID          string
	Type        EventType
	OccurredAt  time.Time
	Actor       Actor
	Appointment Appointment
}
