package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/appointment"
	catalogClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/appointments/models"
)

// Результаты для метрики appointment_status_transitions_total
const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultConflict = "conflict"
	resultError    = "error"

	targetReviewed = "reviewed"
)

// Service жизненный цикл записей: завершение, отмена, отзывы и чтение
// Каждый переход - одно условное обновление по ожидаемому статусу
type Service struct {
	appointmentRepo AppointmentRepository
	catalog         CatalogClient
	notifier        Notifier
	recorder        TransitionRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	catalog CatalogClient,
	notifier Notifier,
	recorder TransitionRecorder,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		catalog:         catalog,
		notifier:        notifier,
		recorder:        recorder,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetAppointment получает запись по ID
// Доступно владельцу-клиенту, назначенному сотруднику и администратору
func (s *Service) GetAppointment(ctx context.Context, actor domain.Actor, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetAppointment: fetching appointment id=%d for user=%d(%s)", id, actor.UserID, actor.Role)

	appointment, err := s.getByID(ctx, "GetAppointment", id)
	if err != nil {
		return nil, err
	}

	if !canView(actor, appointment) {
		s.logger.Warn("GetAppointment: access denied for user=%d to appointment id=%d", actor.UserID, id)
		return nil, ErrForbidden
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListEmployeeAppointments записи сотрудника на дату во всех статусах
// Доступно самому сотруднику и администратору
func (s *Service) ListEmployeeAppointments(ctx context.Context, actor domain.Actor, employeeID int64, date time.Time) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListEmployeeAppointments: employee=%d, date=%s, user=%d(%s)",
		employeeID, date.Format(domain.DateFormat), actor.UserID, actor.Role)

	if !actor.CanManageEmployee(employeeID) {
		s.logger.Warn("ListEmployeeAppointments: access denied for user=%d to employee=%d", actor.UserID, employeeID)
		return nil, ErrForbidden
	}

	if _, err := s.catalog.GetEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, catalogClient.ErrEmployeeNotFound) {
			s.logger.Warn("ListEmployeeAppointments: employee id=%d not found", employeeID)
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("ListEmployeeAppointments: failed to get employee id=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}

	list, err := s.appointmentRepo.ListByEmployeeAndDate(ctx, employeeID, domain.DateOf(date), false)
	if err != nil {
		s.logger.Error("ListEmployeeAppointments: repository error for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: ListEmployeeAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListEmployeeAppointments: found %d appointments for employee=%d", len(list), employeeID)
	return models.FromDomainAppointmentList(list), nil
}

// ListClientAppointments история записей клиента, опционально по статусу
// Клиент видит только свои записи, администратор - любые
func (s *Service) ListClientAppointments(ctx context.Context, actor domain.Actor, req *models.ListClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListClientAppointments: client=%d, status=%v, user=%d(%s)",
		req.ClientID, req.Status, actor.UserID, actor.Role)

	if !actor.IsAdmin() && !(actor.Role == domain.RoleClient && actor.UserID == req.ClientID) {
		s.logger.Warn("ListClientAppointments: access denied for user=%d to client=%d", actor.UserID, req.ClientID)
		return nil, ErrForbidden
	}

	var status *domain.AppointmentStatus
	if req.Status != nil {
		parsed, ok := domain.ParseAppointmentStatus(*req.Status)
		if !ok {
			s.logger.Warn("ListClientAppointments: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &parsed
	}

	list, err := s.appointmentRepo.ListByClient(ctx, req.ClientID, status)
	if err != nil {
		s.logger.Error("ListClientAppointments: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: ListClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListClientAppointments: found %d appointments for client=%d", len(list), req.ClientID)
	return models.FromDomainAppointmentList(list), nil
}

// UpdateStatus переводит запись в completed или cancelled
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d to status=%s by user=%d(%s)", id, req.Status, actor.UserID, actor.Role)

	target, ok := domain.ParseAppointmentStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var (
		updated *domain.Appointment
		err     error
	)
	switch target {
	case domain.StatusCompleted:
		updated, err = s.complete(ctx, actor, id, req.CompletionNotes)
	case domain.StatusCancelled:
		updated, err = s.cancel(ctx, actor, id, req.Reason)
	default:
		s.logger.Warn("UpdateStatus: appointment id=%d cannot move to %s", id, target)
		err = fmt.Errorf("%w: cannot move to %s", ErrInvalidTransition, target)
	}

	s.recorder.RecordTransition(string(target), transitionResult(err))
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(updated), nil
}

// AddReview прикрепляет отзыв клиента к завершённой записи
func (s *Service) AddReview(ctx context.Context, actor domain.Actor, id int64, req *models.AddReviewRequest) (*models.AppointmentResponse, error) {
	updated, err := s.addReview(ctx, actor, id, req)
	s.recorder.RecordTransition(targetReviewed, transitionResult(err))
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointment(updated), nil
}

func (s *Service) complete(ctx context.Context, actor domain.Actor, id int64, notes *string) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	if err := validateText(notes, domain.MaxNotesLength, "completionNotes"); err != nil {
		s.logger.Warn("Complete: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем запись
	appointment, err := s.getByID(ctx, "Complete", id)
	if err != nil {
		return nil, err
	}

	// 3. Завершает только назначенный сотрудник или администратор
	if !actor.CanManageEmployee(appointment.EmployeeID) {
		s.logger.Warn("Complete: user=%d(%s) cannot complete appointment id=%d", actor.UserID, actor.Role, id)
		return nil, ErrForbidden
	}

	// 4. Проверяем переход и время
	if !appointment.Status.CanTransitionTo(domain.StatusCompleted) {
		s.logger.Warn("Complete: appointment id=%d has status=%s", id, appointment.Status)
		return nil, fmt.Errorf("%w: appointment is %s", ErrInvalidTransition, appointment.Status)
	}

	now := s.timeProvider.Now()
	if now.Before(appointment.StartTime) {
		s.logger.Warn("Complete: appointment id=%d has not started yet", id)
		return nil, fmt.Errorf("%w: appointment has not started yet", ErrInvalidTransition)
	}

	// 5. Условное обновление
	updated, err := s.transition(ctx, "Complete", id, domain.StatusCompleted, domain.StatusUpdate{
		CompletionNotes: trimmed(notes),
		At:              now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Complete: appointment id=%d completed by user=%d", id, actor.UserID)
	s.notifier.Notify(ctx, domain.EventAppointmentCompleted, actor, updated)
	return updated, nil
}

func (s *Service) cancel(ctx context.Context, actor domain.Actor, id int64, reason *string) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	if err := validateText(reason, domain.MaxReasonLength, "reason"); err != nil {
		s.logger.Warn("Cancel: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем запись
	appointment, err := s.getByID(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	// 3. Права: клиент-владелец или сотрудник/администратор
	staff := false
	switch {
	case actor.Role == domain.RoleClient:
		if !appointment.IsOwnedBy(actor.UserID) {
			s.logger.Warn("Cancel: client=%d does not own appointment id=%d", actor.UserID, id)
			return nil, ErrForbidden
		}
	case actor.CanManageEmployee(appointment.EmployeeID):
		staff = true
	default:
		s.logger.Warn("Cancel: user=%d(%s) cannot cancel appointment id=%d", actor.UserID, actor.Role, id)
		return nil, ErrForbidden
	}

	// 4. Проверяем переход: из завершённой или отменённой записи выхода нет
	if !appointment.Status.CanTransitionTo(domain.StatusCancelled) {
		s.logger.Warn("Cancel: appointment id=%d has status=%s", id, appointment.Status)
		return nil, fmt.Errorf("%w: appointment is %s", ErrInvalidTransition, appointment.Status)
	}

	// 5. Сотрудник обязан указать причину, клиент отменяет только до начала
	now := s.timeProvider.Now()
	if staff && trimmed(reason) == nil {
		s.logger.Warn("Cancel: staff user=%d did not provide a reason for appointment id=%d", actor.UserID, id)
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if actor.Role == domain.RoleClient && !appointment.StartTime.After(now) {
		s.logger.Warn("Cancel: appointment id=%d already started, client=%d", id, actor.UserID)
		return nil, ErrPastSlot
	}

	// 6. Условное обновление
	role := actor.Role
	updated, err := s.transition(ctx, "Cancel", id, domain.StatusCancelled, domain.StatusUpdate{
		CancelReason: trimmed(reason),
		CancelledBy:  &role,
		At:           now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: appointment id=%d cancelled by user=%d(%s)", id, actor.UserID, actor.Role)
	s.notifier.Notify(ctx, domain.EventAppointmentCancelled, actor, updated)
	return updated, nil
}

func (s *Service) addReview(ctx context.Context, actor domain.Actor, id int64, req *models.AddReviewRequest) (*domain.Appointment, error) {
	s.logger.Info("AddReview: appointment id=%d, rating=%d by user=%d(%s)", id, req.Rating, actor.UserID, actor.Role)

	// 1. Валидация входных данных
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		s.logger.Warn("AddReview: invalid rating=%d", req.Rating)
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	if err := validateText(req.Comment, domain.MaxReviewCommentLength, "comment"); err != nil {
		s.logger.Warn("AddReview: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем запись
	appointment, err := s.getByID(ctx, "AddReview", id)
	if err != nil {
		return nil, err
	}

	// 3. Отзыв оставляет только клиент-владелец
	if actor.Role != domain.RoleClient || !appointment.IsOwnedBy(actor.UserID) {
		s.logger.Warn("AddReview: user=%d(%s) cannot review appointment id=%d", actor.UserID, actor.Role, id)
		return nil, ErrForbidden
	}

	// 4. Отзыв один и только к завершённой записи
	if appointment.HasReview() {
		s.logger.Warn("AddReview: appointment id=%d already has a review", id)
		return nil, ErrConflict
	}
	if appointment.Status != domain.StatusCompleted {
		s.logger.Warn("AddReview: appointment id=%d has status=%s", id, appointment.Status)
		return nil, fmt.Errorf("%w: appointment is %s", ErrInvalidTransition, appointment.Status)
	}

	// 5. Условное обновление
	updated, err := s.appointmentRepo.AttachReview(ctx, id, domain.Review{
		Rating:    req.Rating,
		Comment:   trimmed(req.Comment),
		CreatedAt: s.timeProvider.Now(),
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusMismatch) {
			s.logger.Warn("AddReview: lost race on appointment id=%d", id)
			return nil, ErrConflict
		}
		s.logger.Error("AddReview: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: AddReview - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddReview: review attached to appointment id=%d", id)
	s.notifier.Notify(ctx, domain.EventAppointmentReviewed, actor, updated)
	return updated, nil
}

// Вспомогательные методы

func (s *Service) getByID(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

// transition CAS pending -> target, проигравший гонку получает ErrInvalidTransition
func (s *Service) transition(
	ctx context.Context,
	op string,
	id int64,
	target domain.AppointmentStatus,
	update domain.StatusUpdate,
) (*domain.Appointment, error) {
	updated, err := s.appointmentRepo.UpdateStatus(ctx, id, domain.StatusPending, target, update)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusMismatch) {
			s.logger.Warn("%s: lost race on appointment id=%d", op, id)
			return nil, fmt.Errorf("%w: appointment is no longer pending", ErrInvalidTransition)
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return updated, nil
}

func canView(actor domain.Actor, appointment *domain.Appointment) bool {
	if actor.Role == domain.RoleClient {
		return appointment.IsOwnedBy(actor.UserID)
	}
	return actor.CanManageEmployee(appointment.EmployeeID)
}

func validateText(text *string, maxLen int, field string) error {
	if text != nil && utf8.RuneCountInString(*text) > maxLen {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidInput, field, maxLen)
	}
	return nil
}

// trimmed nil для пустой строки
func trimmed(text *string) *string {
	if text == nil {
		return nil
	}
	t := strings.TrimSpace(*text)
	if t == "" {
		return nil
	}
	return &t
}

func transitionResult(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrConflict):
		return resultConflict
	case errors.Is(err, ErrInternal):
		return resultError
	default:
		return resultRejected
	}
}
