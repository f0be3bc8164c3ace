package schedules

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/schedules/models"
	"github.com/m04kA/SMC-SalonScheduler/pkg/retry"
)

// Settings параметры сервиса расписаний
type Settings struct {
	Location *time.Location
	Retry    retry.Policy
}

// Service сервис для работы с рабочими часами и отгулами
type Service struct {
	scheduleRepo ScheduleRepository
	hoursReader  WorkingHoursReader
	cache        CacheInvalidator
	catalog      CatalogClient
	txManager    TransactionManager
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
// cache может быть nil, если Redis выключен
func NewService(
	scheduleRepo ScheduleRepository,
	hoursReader WorkingHoursReader,
	cache CacheInvalidator,
	catalog CatalogClient,
	txManager TransactionManager,
	settings Settings,
	logger Logger,
) *Service {
	if settings.Location == nil {
		settings.Location = time.Local
	}

	return &Service{
		scheduleRepo: scheduleRepo,
		hoursReader:  hoursReader,
		cache:        cache,
		catalog:      catalog,
		txManager:    txManager,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetWorkingHours получает недельный шаблон сотрудника
// Ненастроенный шаблон не ошибка: Configured = false
func (s *Service) GetWorkingHours(ctx context.Context, employeeID int64) (*models.WorkingHoursResponse, error) {
	s.logger.Info("GetWorkingHours: fetching working hours for employee=%d", employeeID)

	if err := s.checkEmployee(ctx, "GetWorkingHours", employeeID); err != nil {
		return nil, err
	}

	hours, err := retry.Do(ctx, s.settings.Retry, isPermanent, func() (*domain.WorkingHours, error) {
		return s.hoursReader.GetWorkingHours(ctx, employeeID)
	})
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrWorkingHoursNotConfigured) {
			s.logger.Info("GetWorkingHours: employee=%d has no working hours", employeeID)
			return models.FromDomainWorkingHours(employeeID, nil), nil
		}
		s.logger.Error("GetWorkingHours: failed to get working hours for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: GetWorkingHours - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWorkingHours(employeeID, hours), nil
}

// SetWorkingHours полностью перезаписывает шаблон в одной транзакции
// Сотрудник меняет только своё расписание, администратор - любое
func (s *Service) SetWorkingHours(ctx context.Context, actor domain.Actor, employeeID int64, req *models.SetWorkingHoursRequest) (*models.WorkingHoursResponse, error) {
	s.logger.Info("SetWorkingHours: employee=%d, days=%d by user=%d(%s)", employeeID, len(req.Days), actor.UserID, actor.Role)

	// 1. Права
	if !actor.CanManageEmployee(employeeID) {
		s.logger.Warn("SetWorkingHours: user=%d(%s) cannot edit employee=%d", actor.UserID, actor.Role, employeeID)
		return nil, ErrForbidden
	}

	// 2. Валидация шаблона
	hours, err := req.ToDomain(employeeID, s.timeProvider.Now())
	if err != nil {
		s.logger.Warn("SetWorkingHours: validation failed for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Сотрудник существует
	if err := s.checkEmployee(ctx, "SetWorkingHours", employeeID); err != nil {
		return nil, err
	}

	// 4. Перезапись в транзакции
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.scheduleRepo.SetWorkingHours(ctx, hours)
	})
	if err != nil {
		s.logger.Error("SetWorkingHours: repository error for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: SetWorkingHours - repository error: %v", ErrInternal, err)
	}

	// 5. Сбрасываем кэш, ошибка не откатывает запись (до истечения TTL чтение может быть устаревшим)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, employeeID); err != nil {
			s.logger.Warn("SetWorkingHours: %v", err)
		}
	}

	s.logger.Info("SetWorkingHours: successfully saved working hours for employee=%d", employeeID)
	return models.FromDomainWorkingHours(employeeID, hours), nil
}

// AddTimeOff добавляет отгул на дату, повтор той же даты ничего не меняет
func (s *Service) AddTimeOff(ctx context.Context, actor domain.Actor, employeeID int64, req *models.AddTimeOffRequest) (*models.TimeOffResponse, error) {
	s.logger.Info("AddTimeOff: employee=%d, date=%s by user=%d(%s)", employeeID, req.Date, actor.UserID, actor.Role)

	// 1. Права
	if !actor.CanManageEmployee(employeeID) {
		s.logger.Warn("AddTimeOff: user=%d(%s) cannot edit employee=%d", actor.UserID, actor.Role, employeeID)
		return nil, ErrForbidden
	}

	// 2. Валидация
	date, err := time.ParseInLocation(domain.DateFormat, req.Date, s.settings.Location)
	if err != nil {
		s.logger.Warn("AddTimeOff: invalid date=%s", req.Date)
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) > domain.MaxReasonLength {
		s.logger.Warn("AddTimeOff: reason too long for employee=%d", employeeID)
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	// 3. Сотрудник существует
	if err := s.checkEmployee(ctx, "AddTimeOff", employeeID); err != nil {
		return nil, err
	}

	// 4. Сохраняем
	timeOff := &domain.TimeOff{
		EmployeeID: employeeID,
		Date:       date,
		Reason:     reason,
		CreatedAt:  s.timeProvider.Now(),
	}
	if err := s.scheduleRepo.AddTimeOff(ctx, timeOff); err != nil {
		s.logger.Error("AddTimeOff: repository error for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: AddTimeOff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddTimeOff: employee=%d is off on %s", employeeID, req.Date)
	resp := models.FromDomainTimeOff(timeOff)
	return &resp, nil
}

// GetTimeOff отгулы сотрудника за период [from, to]
func (s *Service) GetTimeOff(ctx context.Context, employeeID int64, from, to time.Time) (*models.TimeOffListResponse, error) {
	s.logger.Info("GetTimeOff: employee=%d, period=%s to %s",
		employeeID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	if to.Before(from) {
		s.logger.Warn("GetTimeOff: invalid period for employee=%d", employeeID)
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}
	if to.Sub(from) > time.Duration(domain.MaxTimeOffRangeDays)*24*time.Hour {
		s.logger.Warn("GetTimeOff: period too long for employee=%d", employeeID)
		return nil, fmt.Errorf("%w: period must be at most %d days", ErrInvalidInput, domain.MaxTimeOffRangeDays)
	}

	if err := s.checkEmployee(ctx, "GetTimeOff", employeeID); err != nil {
		return nil, err
	}

	list, err := retry.Do(ctx, s.settings.Retry, isPermanent, func() ([]*domain.TimeOff, error) {
		return s.scheduleRepo.GetTimeOff(ctx, employeeID, from, to)
	})
	if err != nil {
		s.logger.Error("GetTimeOff: repository error for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: GetTimeOff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTimeOff: found %d days off for employee=%d", len(list), employeeID)
	return models.FromDomainTimeOffList(list), nil
}

// checkEmployee проверяет, что сотрудник есть в каталоге
func (s *Service) checkEmployee(ctx context.Context, op string, employeeID int64) error {
	_, err := retry.Do(ctx, s.settings.Retry, isPermanent, func() (*catalogClient.Employee, error) {
		return s.catalog.GetEmployee(ctx, employeeID)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, catalogClient.ErrEmployeeNotFound) {
		s.logger.Warn("%s: employee id=%d not found", op, employeeID)
		return ErrEmployeeNotFound
	}
	s.logger.Error("%s: failed to get employee id=%d: %v", op, employeeID, err)
	return fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
}

// isPermanent ошибки, которые нет смысла повторять
func isPermanent(err error) bool {
	return errors.Is(err, scheduleRepo.ErrWorkingHoursNotConfigured) ||
		errors.Is(err, catalogClient.ErrEmployeeNotFound) ||
		errors.Is(err, catalogClient.ErrInvalidResponse) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
