package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	appointmentStorage "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/appointment"
	scheduleStorage "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonScheduler/pkg/retry"
)

// UseCase use case создания записи
// Гонку двух одновременных бронирований разрешает хранилище (InsertIfFree), а не блокировки приложения
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalog         CatalogClient
	notifier        Notifier
	recorder        AdmissionRecorder
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogClient,
	notifier Notifier,
	recorder AdmissionRecorder,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.Local
	}

	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalog:         catalogClient,
		notifier:        notifier,
		recorder:        recorder,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.recorder.RecordAdmission(admissionResult(resp, err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: actor=%d(%s), client=%d, employee=%d, service=%d, start=%s",
		req.Actor.UserID, req.Actor.Role, req.ClientID, req.EmployeeID, req.ServiceID, req.StartTime.Format(domain.DateTimeFormat))

	// 1. Валидация входных данных и прав
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}
	if err := validateActor(req.Actor, req.ClientID); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	loc := uc.settings.Location
	start := inLocation(req.StartTime, loc)
	now := uc.timeProvider.Now().In(loc)

	// 2. Сотрудник и услуга из каталога
	duration, err := uc.resolveService(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Повтор запроса с тем же ключом идемпотентности
	if key := requestKey(req); key != "" {
		existing, err := uc.appointmentRepo.GetByRequestID(ctx, req.ClientID, key)
		switch {
		case err == nil:
			uc.logger.Info("CreateAppointment: replay of request=%s, appointment id=%d", key, existing.ID)
			return &Response{Appointment: existing, Replayed: true}, nil
		case !errors.Is(err, appointmentStorage.ErrAppointmentNotFound):
			uc.logger.Error("CreateAppointment: failed to check request=%s: %v", key, err)
			return nil, fmt.Errorf("%w: failed to check idempotency key: %v", ErrInternal, err)
		}
	}

	// 4. Время в прошлом или за горизонтом
	if err := validateStartTime(start, now, uc.settings.MinBookingNoticeMinutes, uc.settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateAppointment: start time validation failed: %v", err)
		return nil, err
	}

	// 5. Повторная проверка по актуальным данным (без кэша)
	if err := uc.checkLiveAvailability(ctx, req.EmployeeID, start, duration); err != nil {
		if errors.Is(err, ErrSlotNoLongerAvailable) {
			// Слот мог занять параллельный повтор этого же запроса
			if existing := uc.findReplay(ctx, req); existing != nil {
				return &Response{Appointment: existing, Replayed: true}, nil
			}
		}
		return nil, err
	}

	// 6. Атомарная вставка
	appointment := &domain.Appointment{
		EmployeeID:      req.EmployeeID,
		ServiceID:       req.ServiceID,
		SalonID:         req.SalonID,
		ClientID:        req.ClientID,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          domain.StatusPending,
		Notes:           req.Notes,
	}
	if key := requestKey(req); key != "" {
		appointment.RequestID = &key
	}

	created, err := uc.appointmentRepo.InsertIfFree(ctx, appointment)
	if err != nil {
		switch {
		case errors.Is(err, appointmentStorage.ErrOverlap):
			if existing := uc.findReplay(ctx, req); existing != nil {
				return &Response{Appointment: existing, Replayed: true}, nil
			}
			uc.logger.Warn("CreateAppointment: slot taken concurrently employee=%d start=%s",
				req.EmployeeID, start.Format(domain.DateTimeFormat))
			return nil, fmt.Errorf("%w: overlapping appointment", ErrSlotNoLongerAvailable)

		case errors.Is(err, appointmentStorage.ErrDuplicateRequest):
			// Параллельный повтор с тем же ключом успел раньше
			existing, getErr := uc.appointmentRepo.GetByRequestID(ctx, req.ClientID, *appointment.RequestID)
			if getErr != nil {
				uc.logger.Error("CreateAppointment: failed to load duplicate request=%s: %v", *appointment.RequestID, getErr)
				return nil, fmt.Errorf("%w: failed to load duplicate request: %v", ErrInternal, getErr)
			}
			uc.logger.Info("CreateAppointment: concurrent replay of request=%s, appointment id=%d", *appointment.RequestID, existing.ID)
			return &Response{Appointment: existing, Replayed: true}, nil

		default:
			uc.logger.Error("CreateAppointment: failed to insert appointment: %v", err)
			return nil, fmt.Errorf("%w: failed to insert appointment: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", created.ID)

	// 7. Событие после фиксации
	uc.notifier.Notify(ctx, domain.EventAppointmentBooked, req.Actor, created)

	return &Response{Appointment: created}, nil
}

// resolveService возвращает длительность услуги после проверок каталога
func (uc *UseCase) resolveService(ctx context.Context, req *Request) (int, error) {
	employee, err := retry.Do(ctx, uc.settings.Retry, isPermanent, func() (*catalog.Employee, error) {
		return uc.catalog.GetEmployee(ctx, req.EmployeeID)
	})
	if err != nil {
		if errors.Is(err, catalog.ErrEmployeeNotFound) {
			uc.logger.Warn("CreateAppointment: employee id=%d not found", req.EmployeeID)
			return 0, ErrEmployeeNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get employee id=%d: %v", req.EmployeeID, err)
		return 0, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}
	if !employee.Active {
		uc.logger.Warn("CreateAppointment: employee id=%d is inactive", req.EmployeeID)
		return 0, ErrEmployeeNotFound
	}

	service, err := retry.Do(ctx, uc.settings.Retry, isPermanent, func() (*catalog.Service, error) {
		return uc.catalog.GetService(ctx, req.ServiceID)
	})
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return 0, fmt.Errorf("%w: service not found", ErrInvalidService)
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if err := validateService(service, employee, req.SalonID); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return 0, err
	}

	return service.DurationMinutes, nil
}

// checkLiveAvailability применяет правила расчёта доступности к конкретному времени начала
func (uc *UseCase) checkLiveAvailability(ctx context.Context, employeeID int64, start time.Time, duration int) error {
	date := domain.DateOf(start)

	hours, err := uc.scheduleRepo.GetWorkingHours(ctx, employeeID)
	if err != nil && !errors.Is(err, scheduleStorage.ErrWorkingHoursNotConfigured) {
		uc.logger.Error("CreateAppointment: failed to get working hours employee=%d: %v", employeeID, err)
		return fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	dayOff, err := uc.scheduleRepo.IsDayOff(ctx, employeeID, date)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get time off employee=%d: %v", employeeID, err)
		return fmt.Errorf("%w: failed to get time off: %v", ErrInternal, err)
	}

	booked, err := uc.appointmentRepo.ListByEmployeeAndDate(ctx, employeeID, date, true)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get appointments employee=%d: %v", employeeID, err)
		return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	busy := make([]domain.Interval, 0, len(booked))
	for _, a := range booked {
		busy = append(busy, a.Interval())
	}

	check := domain.DayAvailability{
		Date:     date,
		Hours:    hours,
		DayOff:   dayOff,
		Busy:     busy,
		Duration: duration,
	}.Check(start)

	switch check {
	case domain.SlotFree:
		return nil
	case domain.SlotNotConfigured:
		uc.logger.Warn("CreateAppointment: employee=%d has no working hours", employeeID)
		return fmt.Errorf("%w: working hours not configured", ErrSlotNoLongerAvailable)
	case domain.SlotDayOff:
		uc.logger.Warn("CreateAppointment: employee=%d is off on %s", employeeID, date.Format(domain.DateFormat))
		return fmt.Errorf("%w: employee is off", ErrSlotNoLongerAvailable)
	case domain.SlotOutsideWindow:
		uc.logger.Warn("CreateAppointment: start=%s is outside working hours of employee=%d",
			start.Format(domain.DateTimeFormat), employeeID)
		return fmt.Errorf("%w: outside working hours", ErrSlotNoLongerAvailable)
	default:
		uc.logger.Warn("CreateAppointment: start=%s overlaps existing appointment of employee=%d",
			start.Format(domain.DateTimeFormat), employeeID)
		return fmt.Errorf("%w: overlapping appointment", ErrSlotNoLongerAvailable)
	}
}

// findReplay ищет запись, созданную этим же запросом (по ключу идемпотентности)
func (uc *UseCase) findReplay(ctx context.Context, req *Request) *domain.Appointment {
	key := requestKey(req)
	if key == "" {
		return nil
	}

	existing, err := uc.appointmentRepo.GetByRequestID(ctx, req.ClientID, key)
	if err != nil {
		if !errors.Is(err, appointmentStorage.ErrAppointmentNotFound) {
			uc.logger.Warn("CreateAppointment: failed to check request=%s: %v", key, err)
		}
		return nil
	}

	uc.logger.Info("CreateAppointment: concurrent replay of request=%s, appointment id=%d", key, existing.ID)
	return existing
}

func requestKey(req *Request) string {
	if req.RequestID == nil {
		return ""
	}
	return *req.RequestID
}

// inLocation трактует время как локальное время салона, если оно пришло без зоны
func inLocation(t time.Time, loc *time.Location) time.Time {
	if t.Location() == loc {
		return t
	}
	return t.In(loc)
}

func admissionResult(resp *Response, err error) string {
	switch {
	case err == nil && resp.Replayed:
		return resultReplayed
	case err == nil:
		return resultAdmitted
	case errors.Is(err, ErrSlotNoLongerAvailable):
		return resultUnavailable
	case errors.Is(err, ErrInternal):
		return resultError
	default:
		return resultRejected
	}
}
