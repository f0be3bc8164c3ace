package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-SalonScheduler/internal/usecase/get_availability"
)

const (
	msgInvalidEmployeeID = "некорректный ID сотрудника"
	msgMissingServiceID  = "ID услуги обязателен"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgEmployeeNotFound  = "сотрудник не найден"
	msgInvalidService    = "услуга не найдена или не оказывается сотрудником"
	msgInvalidInput      = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/employees/{employeeId}/availability
// Query params: serviceId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(mux.Vars(r)["employeeId"], 10, 64)
	if err != nil || employeeID <= 0 {
		h.logger.Warn("GET /employees/{id}/availability - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /employees/{id}/availability - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil || serviceID <= 0 {
		h.logger.Warn("GET /employees/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /employees/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(employeeID, serviceID, dateStr, h.loc)
	if err != nil {
		h.logger.Warn("GET /employees/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrEmployeeNotFound):
			h.logger.Warn("GET /employees/{id}/availability - Employee not found: employee_id=%d", employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, getAvailability.ErrInvalidService):
			h.logger.Warn("GET /employees/{id}/availability - Invalid service: employee_id=%d, service_id=%d",
				employeeID, serviceID)
			handlers.RespondError(w, http.StatusBadRequest, handlers.CodeInvalidService, msgInvalidService)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /employees/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /employees/{id}/availability - Failed to get availability: employee_id=%d, service_id=%d, error=%v",
				employeeID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /employees/{id}/availability - Slots retrieved: employee_id=%d, service_id=%d, slots_count=%d",
		employeeID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
