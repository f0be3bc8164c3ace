package get_working_hours

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/service/schedules/models"
)

type ScheduleService interface {
	GetWorkingHours(ctx context.Context, employeeID int64) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
