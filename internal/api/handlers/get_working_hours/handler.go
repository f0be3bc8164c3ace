package get_working_hours

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/schedules"
)

const (
	msgInvalidEmployeeID = "некорректный ID сотрудника"
	msgEmployeeNotFound  = "сотрудник не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/employees/{employeeId}/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(mux.Vars(r)["employeeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /employees/{id}/working-hours - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	hours, err := h.service.GetWorkingHours(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, schedules.ErrEmployeeNotFound) {
			h.logger.Warn("GET /employees/{id}/working-hours - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)
			return
		}
		h.logger.Error("GET /employees/{id}/working-hours - Failed to get working hours: employee_id=%d, error=%v", employeeID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, hours)
}
