package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalog"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateService проверяет, что сотрудник оказывает услугу в своём салоне
func validateService(service *catalog.Service, employee *catalog.Employee) error {
	if service.DurationMinutes <= 0 {
		return fmt.Errorf("%w: service id=%d has no duration", ErrInvalidService, service.ID)
	}

	if service.SalonID != employee.SalonID {
		return fmt.Errorf("%w: service id=%d belongs to another salon", ErrInvalidService, service.ID)
	}

	if !service.ProvidedBy(employee.ID) {
		return fmt.Errorf("%w: employee id=%d does not provide service id=%d", ErrInvalidService, employee.ID, service.ID)
	}

	return nil
}

// isPermanent ошибки, которые нет смысла повторять
func isPermanent(err error) bool {
	return errors.Is(err, catalog.ErrServiceNotFound) ||
		errors.Is(err, catalog.ErrEmployeeNotFound) ||
		errors.Is(err, catalog.ErrInvalidResponse) ||
		errors.Is(err, schedule.ErrWorkingHoursNotConfigured) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
