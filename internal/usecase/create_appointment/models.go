package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/retry"
)

// Settings параметры бронирования из секции [booking]
type Settings struct {
	Location                *time.Location
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int // 0 = без ограничения
	Retry                   retry.Policy
}

// Request модель запроса на создание записи
type Request struct {
	Actor      domain.Actor
	ClientID   int64
	EmployeeID int64
	ServiceID  int64
	SalonID    int64
	StartTime  time.Time // Локальное время салона
	Notes      *string
	RequestID  *string // Значение заголовка Idempotency-Key
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	Replayed    bool // true - повтор запроса с тем же ключом, возвращена ранее созданная запись
}

// Результаты для метрики appointment_admissions_total
const (
	resultAdmitted    = "admitted"
	resultReplayed    = "replayed"
	resultUnavailable = "unavailable"
	resultRejected    = "rejected"
	resultError       = "error"
)
