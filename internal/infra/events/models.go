package events

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Message JSON тело события в топике
type Message struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	OccurredAt      string  `json:"occurredAt"`
	ActorID         int64   `json:"actorId"`
	ActorRole       string  `json:"actorRole"`
	AppointmentID   int64   `json:"appointmentId"`
	EmployeeID      int64   `json:"employeeId"`
	ClientID        int64   `json:"clientId"`
	ServiceID       int64   `json:"serviceId"`
	SalonID         int64   `json:"salonId"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	CancelReason    *string `json:"cancelReason,omitempty"`
	CancelledBy     *string `json:"cancelledBy,omitempty"`
	ReviewRating    *int    `json:"reviewRating,omitempty"`
}

// FromDomain конвертирует событие в модель сообщения
func FromDomain(e domain.AppointmentEvent) Message {
	a := e.Appointment
	msg := Message{
		ID:              e.ID,
		Type:            string(e.Type),
		OccurredAt:      e.OccurredAt.Format(time.RFC3339),
		ActorID:         e.Actor.UserID,
		ActorRole:       string(e.Actor.Role),
		AppointmentID:   a.ID,
		EmployeeID:      a.EmployeeID,
		ClientID:        a.ClientID,
		ServiceID:       a.ServiceID,
		SalonID:         a.SalonID,
		StartTime:       a.StartTime.Format(domain.DateTimeFormat),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		CancelReason:    a.CancelReason,
	}
	if a.CancelledBy != nil {
		role := string(*a.CancelledBy)
		msg.CancelledBy = &role
	}
	if a.Review != nil {
		rating := a.Review.Rating
		msg.ReviewRating = &rating
	}
	return msg
}
