package get_time_off

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/schedules"
)

const (
	msgInvalidEmployeeID = "некорректный ID сотрудника"
	msgMissingPeriod     = "параметры from и to обязательны"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidPeriod     = "некорректный период"
	msgEmployeeNotFound  = "сотрудник не найден"
)

type Handler struct {
	service ScheduleService
	loc     *time.Location
	logger  Logger
}

func NewHandler(service ScheduleService, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/employees/{employeeId}/time-off?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(mux.Vars(r)["employeeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /employees/{id}/time-off - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	fromStr, toStr := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if fromStr == "" || toStr == "" {
		h.logger.Warn("GET /employees/{id}/time-off - Missing period")
		handlers.RespondBadRequest(w, msgMissingPeriod)
		return
	}

	from, errFrom := time.ParseInLocation(domain.DateFormat, fromStr, h.loc)
	to, errTo := time.ParseInLocation(domain.DateFormat, toStr, h.loc)
	if errFrom != nil || errTo != nil {
		h.logger.Warn("GET /employees/{id}/time-off - Invalid date format: from=%s, to=%s", fromStr, toStr)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	list, err := h.service.GetTimeOff(r.Context(), employeeID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("GET /employees/{id}/time-off - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, schedules.ErrEmployeeNotFound):
			h.logger.Warn("GET /employees/{id}/time-off - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		default:
			h.logger.Error("GET /employees/{id}/time-off - Failed to get time off: employee_id=%d, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
