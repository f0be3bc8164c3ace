package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonScheduler/pkg/retry"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// UseCase use case расчёта свободных слотов
// Чтение допускает устаревшие данные (рабочие часы из кэша), итоговую проверку делает бронирование
type UseCase struct {
	catalog      CatalogClient
	hours        WorkingHoursReader
	timeOff      TimeOffReader
	appointments AppointmentReader
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogClient CatalogClient,
	hours WorkingHoursReader,
	timeOff TimeOffReader,
	appointments AppointmentReader,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.Local
	}
	if settings.SlotStepMinutes <= 0 {
		settings.SlotStepMinutes = domain.DefaultSlotStepMinutes
	}

	return &UseCase{
		catalog:      catalogClient,
		hours:        hours,
		timeOff:      timeOff,
		appointments: appointments,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет расчёт свободных слотов сотрудника на дату
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: employee=%d, service=%d, date=%s",
		req.EmployeeID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	loc := uc.settings.Location
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
	now := uc.timeProvider.Now().In(loc)

	// 2. Сотрудник и услуга из каталога
	employee, err := retry.Do(ctx, uc.settings.Retry, isPermanent, func() (*catalog.Employee, error) {
		return uc.catalog.GetEmployee(ctx, req.EmployeeID)
	})
	if err != nil {
		if errors.Is(err, catalog.ErrEmployeeNotFound) {
			uc.logger.Warn("GetAvailability: employee id=%d not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("GetAvailability: failed to get employee id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}
	if !employee.Active {
		uc.logger.Warn("GetAvailability: employee id=%d is inactive", req.EmployeeID)
		return nil, ErrEmployeeNotFound
	}

	service, err := retry.Do(ctx, uc.settings.Retry, isPermanent, func() (*catalog.Service, error) {
		return uc.catalog.GetService(ctx, req.ServiceID)
	})
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, fmt.Errorf("%w: service not found", ErrInvalidService)
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if err := validateService(service, employee); err != nil {
		uc.logger.Warn("GetAvailability: %v", err)
		return nil, err
	}

	response := &Response{
		EmployeeID:      req.EmployeeID,
		ServiceID:       req.ServiceID,
		Date:            date,
		DurationMinutes: service.DurationMinutes,
		Configured:      true,
		Slots:           []types.TimeString{},
	}

	// 3. Дата за горизонтом бронирования
	if uc.beyondHorizon(date, now) {
		uc.logger.Info("GetAvailability: date %s is beyond %d days horizon",
			date.Format(domain.DateFormat), uc.settings.AdvanceBookingDays)
		return response, nil
	}

	// 4. Рабочие часы, отгул и занятые интервалы
	hours, err := retry.Do(ctx, uc.settings.Retry, isPermanent, func() (*domain.WorkingHours, error) {
		return uc.hours.GetWorkingHours(ctx, req.EmployeeID)
	})
	if err != nil && !errors.Is(err, schedule.ErrWorkingHoursNotConfigured) {
		uc.logger.Error("GetAvailability: failed to get working hours employee=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	dayOff, err := retry.Do(ctx, uc.settings.Retry, isPermanent, func() (bool, error) {
		return uc.timeOff.IsDayOff(ctx, req.EmployeeID, date)
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get time off employee=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get time off: %v", ErrInternal, err)
	}

	booked, err := retry.Do(ctx, uc.settings.Retry, isPermanent, func() ([]*domain.Appointment, error) {
		return uc.appointments.ListByEmployeeAndDate(ctx, req.EmployeeID, date, true)
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get appointments employee=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	busy := make([]domain.Interval, 0, len(booked))
	for _, a := range booked {
		busy = append(busy, a.Interval())
	}

	// 5. Расчёт; прошедшие слоты (и прошедшие даты целиком) отсекаются через NotBefore
	result := domain.DayAvailability{
		Date:      date,
		Hours:     hours,
		DayOff:    dayOff,
		Busy:      busy,
		Duration:  service.DurationMinutes,
		Step:      uc.settings.SlotStepMinutes,
		NotBefore: now.Add(time.Duration(uc.settings.MinBookingNoticeMinutes) * time.Minute),
	}.Compute()

	response.Configured = result.Configured
	response.DayOff = result.DayOff
	for _, slot := range result.Slots {
		response.Slots = append(response.Slots, slot.StartTime())
	}

	uc.logger.Info("GetAvailability: employee=%d, date=%s, configured=%t, dayOff=%t, slots=%d",
		req.EmployeeID, date.Format(domain.DateFormat), response.Configured, response.DayOff, len(response.Slots))

	return response, nil
}

func (uc *UseCase) beyondHorizon(date, now time.Time) bool {
	if uc.settings.AdvanceBookingDays == 0 {
		return false
	}
	maxDate := domain.DateOf(now).AddDate(0, 0, uc.settings.AdvanceBookingDays)
	return date.After(maxDate)
}
