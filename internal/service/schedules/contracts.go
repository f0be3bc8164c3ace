package schedules

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalog"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	SetWorkingHours(ctx context.Context, hours *domain.WorkingHours) error
	AddTimeOff(ctx context.Context, timeOff *domain.TimeOff) error
	GetTimeOff(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.TimeOff, error)
}

// WorkingHoursReader чтение шаблона (кэш Redis или репозиторий)
type WorkingHoursReader interface {
	GetWorkingHours(ctx context.Context, employeeID int64) (*domain.WorkingHours, error)
}

// CacheInvalidator сброс кэша после изменения шаблона
type CacheInvalidator interface {
	Invalidate(ctx context.Context, employeeID int64) error
}

// CatalogClient интерфейс клиента каталога
type CatalogClient interface {
	GetEmployee(ctx context.Context, employeeID int64) (*catalog.Employee, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
