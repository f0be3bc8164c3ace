package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// DayHours окно одного дня недели
type DayHours struct {
	Weekday int    `json:"weekday"` // 0 - воскресенье
	Start   string `json:"start"`   // "09:00"
	End     string `json:"end"`     // "18:00"
}

// Request модели

// SetWorkingHoursRequest полный недельный шаблон
type SetWorkingHoursRequest struct {
	Days []DayHours `json:"days"`
}

// ToDomain конвертирует запрос в шаблон, проверяя дубликаты дней недели
func (r *SetWorkingHoursRequest) ToDomain(employeeID int64, updatedAt time.Time) (*domain.WorkingHours, error) {
	hours := &domain.WorkingHours{
		EmployeeID: employeeID,
		Days:       make(map[time.Weekday]domain.DayHours, len(r.Days)),
		UpdatedAt:  updatedAt,
	}

	for _, d := range r.Days {
		if d.Weekday < int(time.Sunday) || d.Weekday > int(time.Saturday) {
			return nil, fmt.Errorf("%w: %d", domain.ErrInvalidWeekday, d.Weekday)
		}
		weekday := time.Weekday(d.Weekday)
		if _, ok := hours.Days[weekday]; ok {
			return nil, fmt.Errorf("%w: duplicate weekday %d", domain.ErrInvalidRange, d.Weekday)
		}
		hours.Days[weekday] = domain.DayHours{
			Start: types.TimeString(d.Start),
			End:   types.TimeString(d.End),
		}
	}

	if err := hours.Validate(); err != nil {
		return nil, err
	}
	return hours, nil
}

// AddTimeOffRequest запрос на добавление отгула
type AddTimeOffRequest struct {
	Date   string `json:"date"` // "2025-10-13"
	Reason string `json:"reason"`
}

// Response модели

// WorkingHoursResponse шаблон сотрудника
// Configured = false, если сотрудник ещё не задал расписание
type WorkingHoursResponse struct {
	EmployeeID int64      `json:"employeeId"`
	Configured bool       `json:"configured"`
	Days       []DayHours `json:"days"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// TimeOffResponse отгул
type TimeOffResponse struct {
	EmployeeID int64  `json:"employeeId"`
	Date       string `json:"date"`
	Reason     string `json:"reason,omitempty"`
}

// TimeOffListResponse список отгулов по возрастанию даты
type TimeOffListResponse struct {
	TimeOff []TimeOffResponse `json:"timeOff"`
}

// Методы конвертации

// FromDomainWorkingHours конвертирует шаблон в DTO, дни по порядку с воскресенья
func FromDomainWorkingHours(employeeID int64, hours *domain.WorkingHours) *WorkingHoursResponse {
	resp := &WorkingHoursResponse{
		EmployeeID: employeeID,
		Days:       []DayHours{},
	}
	if hours == nil {
		return resp
	}

	resp.Configured = true
	if !hours.UpdatedAt.IsZero() {
		updatedAt := hours.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	for weekday, day := range hours.Days {
		resp.Days = append(resp.Days, DayHours{
			Weekday: int(weekday),
			Start:   day.Start.String(),
			End:     day.End.String(),
		})
	}
	sort.Slice(resp.Days, func(i, j int) bool {
		return resp.Days[i].Weekday < resp.Days[j].Weekday
	})

	return resp
}

// FromDomainTimeOff конвертирует отгул в DTO
func FromDomainTimeOff(t *domain.TimeOff) TimeOffResponse {
	return TimeOffResponse{
		EmployeeID: t.EmployeeID,
		Date:       t.Date.Format(domain.DateFormat),
		Reason:     t.Reason,
	}
}

// FromDomainTimeOffList конвертирует список отгулов в DTO
func FromDomainTimeOffList(list []*domain.TimeOff) *TimeOffListResponse {
	resp := &TimeOffListResponse{TimeOff: make([]TimeOffResponse, 0, len(list))}
	for _, t := range list {
		resp.TimeOff = append(resp.TimeOff, FromDomainTimeOff(t))
	}
	return resp
}
