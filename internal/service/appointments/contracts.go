package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalog"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error)
	ListByClient(ctx context.Context, clientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, expected, target domain.AppointmentStatus, update domain.StatusUpdate) (*domain.Appointment, error)
	AttachReview(ctx context.Context, id int64, review domain.Review) (*domain.Appointment, error)
}

// CatalogClient интерфейс клиента каталога
type CatalogClient interface {
	GetEmployee(ctx context.Context, employeeID int64) (*catalog.Employee, error)
}

// Notifier отправка событий после фиксации
type Notifier interface {
	Notify(ctx context.Context, eventType domain.EventType, actor domain.Actor, appointment *domain.Appointment)
}

// TransitionRecorder метрики смены статусов
type TransitionRecorder interface {
	RecordTransition(target, result string)
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
