package models

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Request модели

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Status          string  `json:"status"`
	CompletionNotes *string `json:"completionNotes,omitempty"`
	Reason          *string `json:"reason,omitempty"`
}

// AddReviewRequest запрос на добавление отзыва
type AddReviewRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

// ListClientAppointmentsRequest запрос на получение записей клиента
type ListClientAppointmentsRequest struct {
	ClientID int64
	Status   *string
}

// Response модели

// ReviewResponse отзыв клиента
type ReviewResponse struct {
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	EmployeeID      int64   `json:"employeeId"`
	ServiceID       int64   `json:"serviceId"`
	SalonID         int64   `json:"salonId"`
	ClientID        int64   `json:"clientId"`
	Date            string  `json:"date"`      // "2025-10-13"
	StartTime       string  `json:"startTime"` // "10:00"
	EndTime         string  `json:"endTime"`   // "11:00"
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`

	CompletionNotes *string `json:"completionNotes,omitempty"`
	CompletedAt     *string `json:"completedAt,omitempty"` // ISO 8601

	CancelReason *string `json:"cancelReason,omitempty"`
	CancelledBy  *string `json:"cancelledBy,omitempty"`
	CancelledAt  *string `json:"cancelledAt,omitempty"` // ISO 8601

	Review *ReviewResponse `json:"review,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		ServiceID:       a.ServiceID,
		SalonID:         a.SalonID,
		ClientID:        a.ClientID,
		Date:            a.StartTime.Format(domain.DateFormat),
		StartTime:       a.StartTime.Format(domain.TimeFormat),
		EndTime:         a.EndTime().Format(domain.TimeFormat),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		Notes:           a.Notes,
		CompletionNotes: a.CompletionNotes,
		CompletedAt:     formatTime(a.CompletedAt),
		CancelReason:    a.CancelReason,
		CancelledAt:     formatTime(a.CancelledAt),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	if a.CancelledBy != nil {
		role := string(*a.CancelledBy)
		resp.CancelledBy = &role
	}

	if a.Review != nil {
		resp.Review = &ReviewResponse{
			Rating:    a.Review.Rating,
			Comment:   a.Review.Comment,
			CreatedAt: a.Review.CreatedAt,
		}
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
