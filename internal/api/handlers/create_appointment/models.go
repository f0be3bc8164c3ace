package create_appointment

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	createAppointment "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ClientID   *int64  `json:"clientId,omitempty"` // Для клиента по умолчанию он сам
	EmployeeID int64   `json:"employeeId"`
	ServiceID  int64   `json:"serviceId"`
	SalonID    int64   `json:"salonId"`
	StartTime  string  `json:"startTime"` // "2025-10-13T10:00", локальное время салона
	Notes      *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(
	actor domain.Actor,
	idempotencyKey string,
	loc *time.Location,
) (*createAppointment.Request, error) {
	start, err := parseStartTime(r.StartTime, loc)
	if err != nil {
		return nil, err
	}

	clientID := actor.UserID
	if r.ClientID != nil {
		clientID = *r.ClientID
	}

	req := &createAppointment.Request{
		Actor:      actor,
		ClientID:   clientID,
		EmployeeID: r.EmployeeID,
		ServiceID:  r.ServiceID,
		SalonID:    r.SalonID,
		StartTime:  start,
		Notes:      r.Notes,
	}

	if key := strings.TrimSpace(idempotencyKey); key != "" {
		req.RequestID = &key
	}

	return req, nil
}

// parseStartTime принимает локальное время салона или RFC3339 со смещением
func parseStartTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(domain.DateTimeFormat, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}
