package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalog"
)

// CatalogClient интерфейс клиента каталога услуг и сотрудников
type CatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalog.Service, error)
	GetEmployee(ctx context.Context, employeeID int64) (*catalog.Employee, error)
}

// WorkingHoursReader источник рабочих часов (кэш Redis или репозиторий)
type WorkingHoursReader interface {
	GetWorkingHours(ctx context.Context, employeeID int64) (*domain.WorkingHours, error)
}

// TimeOffReader интерфейс чтения отгулов
type TimeOffReader interface {
	IsDayOff(ctx context.Context, employeeID int64, date time.Time) (bool, error)
}

// AppointmentReader интерфейс чтения записей
type AppointmentReader interface {
	ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
