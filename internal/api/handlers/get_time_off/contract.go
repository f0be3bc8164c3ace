package get_time_off

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/service/schedules/models"
)

type ScheduleService interface {
	GetTimeOff(ctx context.Context, employeeID int64, from, to time.Time) (*models.TimeOffListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
