package set_working_hours

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/schedules"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/schedules/models"
)

const (
	msgUnauthorized       = "пользователь не определён"
	msgInvalidEmployeeID  = "некорректный ID сотрудника"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidHours       = "некорректные рабочие часы: начало должно быть раньше конца, дни недели 0-6 без повторов"
	msgEmployeeNotFound   = "сотрудник не найден"
	msgForbidden          = "можно менять только своё расписание"
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

// Handle PUT /api/v1/employees/{employeeId}/working-hours
// Полная перезапись недельного шаблона
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	employeeID, err := strconv.ParseInt(mux.Vars(r)["employeeId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /employees/{id}/working-hours - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	var req models.SetWorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /employees/{id}/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	hours, err := h.service.SetWorkingHours(r.Context(), actor, employeeID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrForbidden):
			h.logger.Warn("PUT /employees/{id}/working-hours - Access denied: employee_id=%d, user_id=%d", employeeID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("PUT /employees/{id}/working-hours - Invalid hours: employee_id=%d, error=%v", employeeID, err)
			handlers.RespondBadRequest(w, msgInvalidHours)

		case errors.Is(err, schedules.ErrEmployeeNotFound):
			h.logger.Warn("PUT /employees/{id}/working-hours - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		default:
			h.logger.Error("PUT /employees/{id}/working-hours - Failed to save working hours: employee_id=%d, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /employees/{id}/working-hours - Working hours saved: employee_id=%d, days=%d", employeeID, len(hours.Days))
	handlers.RespondJSON(w, http.StatusOK, hours)
}
