package add_time_off

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
	msgInvalidInput       = "некорректная дата или слишком длинная причина"
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

// Handle POST /api/v1/employees/{employeeId}/time-off
// Повтор той же даты ничего не меняет
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	employeeID, err := strconv.ParseInt(mux.Vars(r)["employeeId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /employees/{id}/time-off - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	var req models.AddTimeOffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /employees/{id}/time-off - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	timeOff, err := h.service.AddTimeOff(r.Context(), actor, employeeID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrForbidden):
			h.logger.Warn("POST /employees/{id}/time-off - Access denied: employee_id=%d, user_id=%d", employeeID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("POST /employees/{id}/time-off - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, schedules.ErrEmployeeNotFound):
			h.logger.Warn("POST /employees/{id}/time-off - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		default:
			h.logger.Error("POST /employees/{id}/time-off - Failed to add time off: employee_id=%d, error=%v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /employees/{id}/time-off - Time off added: employee_id=%d, date=%s", employeeID, timeOff.Date)
	handlers.RespondJSON(w, http.StatusCreated, timeOff)
}
