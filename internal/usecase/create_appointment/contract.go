package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalog"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	InsertIfFree(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetByRequestID(ctx context.Context, clientID int64, requestID string) (*domain.Appointment, error)
	ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписаний (без кэша: проверка идёт по актуальным данным)
type ScheduleRepository interface {
	GetWorkingHours(ctx context.Context, employeeID int64) (*domain.WorkingHours, error)
	IsDayOff(ctx context.Context, employeeID int64, date time.Time) (bool, error)
}

// CatalogClient интерфейс клиента каталога услуг и сотрудников
type CatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalog.Service, error)
	GetEmployee(ctx context.Context, employeeID int64) (*catalog.Employee, error)
}

// Notifier отправка событий после фиксации
type Notifier interface {
	Notify(ctx context.Context, eventType domain.EventType, actor domain.Actor, appointment *domain.Appointment)
}

// AdmissionRecorder метрики результатов бронирования
type AdmissionRecorder interface {
	RecordAdmission(result string)
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
