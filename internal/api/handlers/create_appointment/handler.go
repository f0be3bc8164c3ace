package create_appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_appointment"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"

	msgUnauthorized          = "пользователь не определён"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidStartTime      = "некорректное время начала, ожидается YYYY-MM-DDTHH:MM"
	msgInvalidInput          = "некорректные данные записи"
	msgEmployeeNotFound      = "сотрудник не найден"
	msgInvalidService        = "услуга не найдена, не оказывается сотрудником или относится к другому салону"
	msgPastSlot              = "время начала уже прошло"
	msgSlotNoLongerAvailable = "выбранное время больше недоступно"
	msgForbidden             = "клиент может записать только себя"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
// Header Idempotency-Key (optional): повтор с тем же ключом вернёт уже созданную запись
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor, r.Header.Get(HeaderIdempotencyKey), h.loc)
	if err != nil {
		h.logger.Warn("POST /appointments - Invalid start time %q: %v", req.StartTime, err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createAppointment.ErrForbidden):
			h.logger.Warn("POST /appointments - Forbidden: user_id=%d, client_id=%d", actor.UserID, useCaseReq.ClientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createAppointment.ErrEmployeeNotFound):
			h.logger.Warn("POST /appointments - Employee not found: employee_id=%d", req.EmployeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, createAppointment.ErrInvalidService):
			h.logger.Warn("POST /appointments - Invalid service: service_id=%d, employee_id=%d", req.ServiceID, req.EmployeeID)
			handlers.RespondError(w, http.StatusBadRequest, handlers.CodeInvalidService, msgInvalidService)

		case errors.Is(err, createAppointment.ErrPastSlot):
			h.logger.Warn("POST /appointments - Past slot: start=%s", req.StartTime)
			handlers.RespondError(w, http.StatusBadRequest, handlers.CodePastSlot, msgPastSlot)

		case errors.Is(err, createAppointment.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /appointments - Slot no longer available: employee_id=%d, start=%s", req.EmployeeID, req.StartTime)
			handlers.RespondConflict(w, handlers.CodeSlotNoLongerAvailable, msgSlotNoLongerAvailable)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /appointments - Appointment created: id=%d, replayed=%t", result.Appointment.ID, result.Replayed)
	handlers.RespondJSON(w, status, models.FromDomainAppointment(result.Appointment))
}
