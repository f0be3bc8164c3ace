package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalog"
)

const maxRequestIDLength = 128

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.RequestID != nil && len(*req.RequestID) > maxRequestIDLength {
		return fmt.Errorf("%w: idempotency key must be at most %d characters", ErrInvalidInput, maxRequestIDLength)
	}

	return nil
}

// validateActor клиент записывает только себя, сотрудник и администратор - любого клиента
func validateActor(actor domain.Actor, clientID int64) error {
	switch actor.Role {
	case domain.RoleClient:
		if actor.UserID != clientID {
			return fmt.Errorf("%w: client %d cannot book for client %d", ErrForbidden, actor.UserID, clientID)
		}
		return nil
	case domain.RoleEmployee, domain.RoleAdmin:
		return nil
	default:
		return fmt.Errorf("%w: unknown role %q", ErrForbidden, actor.Role)
	}
}

// validateService проверяет, что сотрудник оказывает услугу в указанном салоне
func validateService(service *catalog.Service, employee *catalog.Employee, salonID int64) error {
	if service.DurationMinutes <= 0 || service.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: service id=%d has invalid duration %d", ErrInvalidService, service.ID, service.DurationMinutes)
	}

	if service.SalonID != salonID || employee.SalonID != salonID {
		return fmt.Errorf("%w: service id=%d or employee id=%d is not in salon id=%d",
			ErrInvalidService, service.ID, employee.ID, salonID)
	}

	if !service.ProvidedBy(employee.ID) {
		return fmt.Errorf("%w: employee id=%d does not provide service id=%d", ErrInvalidService, employee.ID, service.ID)
	}

	return nil
}

// validateStartTime проверяет, что время не в прошлом и не за горизонтом бронирования
func validateStartTime(start, now time.Time, minNoticeMinutes, advanceBookingDays int) error {
	if start.Before(now) {
		return ErrPastSlot
	}

	minAllowed := now.Add(time.Duration(minNoticeMinutes) * time.Minute)
	if start.Before(minAllowed) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrPastSlot, minNoticeMinutes)
	}

	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := domain.DateOf(now).AddDate(0, 0, advanceBookingDays)
	if domain.DateOf(start).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrInvalidInput, advanceBookingDays)
	}

	return nil
}

// isPermanent ошибки, которые нет смысла повторять
func isPermanent(err error) bool {
	return errors.Is(err, catalog.ErrServiceNotFound) ||
		errors.Is(err, catalog.ErrEmployeeNotFound) ||
		errors.Is(err, catalog.ErrInvalidResponse) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
