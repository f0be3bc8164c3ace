package add_review

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/appointments"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/appointments/models"
)

const (
	msgUnauthorized         = "пользователь не определён"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidInput         = "оценка должна быть от 1 до 5"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "отзыв может оставить только клиент этой записи"
	msgInvalidTransition    = "отзыв можно оставить только к завершённой записи"
	msgConflict             = "отзыв уже оставлен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/review
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/review - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req models.AddReviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/review - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	appointment, err := h.service.AddReview(r.Context(), actor, appointmentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/review - Invalid input: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/review - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrForbidden):
			h.logger.Warn("POST /appointments/{id}/review - Access denied: appointment_id=%d, user_id=%d", appointmentID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrConflict):
			h.logger.Warn("POST /appointments/{id}/review - Review already exists: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, handlers.CodeConflict, msgConflict)

		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("POST /appointments/{id}/review - Appointment not completed: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, handlers.CodeInvalidTransition, msgInvalidTransition)

		default:
			h.logger.Error("POST /appointments/{id}/review - Failed to add review: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/review - Review added: appointment_id=%d, rating=%d", appointmentID, req.Rating)
	handlers.RespondJSON(w, http.StatusCreated, appointment)
}
