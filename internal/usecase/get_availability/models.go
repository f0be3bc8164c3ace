package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/pkg/retry"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// Settings параметры сетки слотов из секции [booking]
type Settings struct {
	Location                *time.Location
	SlotStepMinutes         int
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int // 0 = без ограничения
	Retry                   retry.Policy
}

// Request модель запроса свободных слотов
type Request struct {
	EmployeeID int64
	ServiceID  int64
	Date       time.Time // Дата (время игнорируется)
}

// Response модель ответа со свободными слотами
type Response struct {
	EmployeeID      int64
	ServiceID       int64
	Date            time.Time
	DurationMinutes int
	Configured      bool // false - сотрудник не задал рабочие часы
	DayOff          bool // На дату есть отгул
	Slots           []types.TimeString
}
