package add_time_off

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/schedules/models"
)

type ScheduleService interface {
	AddTimeOff(ctx context.Context, actor domain.Actor, employeeID int64, req *models.AddTimeOffRequest) (*models.TimeOffResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
