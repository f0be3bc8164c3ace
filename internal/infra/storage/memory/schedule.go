package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/schedule"
)

type dayKey struct {
	employeeID int64
	date       string
}

// ScheduleStore рабочие часы и отгулы в памяти
type ScheduleStore struct {
	mu      sync.RWMutex
	hours   map[int64]*domain.WorkingHours
	timeOff map[dayKey]*domain.TimeOff
}

// NewScheduleStore создает пустое хранилище расписаний
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{
		hours:   make(map[int64]*domain.WorkingHours),
		timeOff: make(map[dayKey]*domain.TimeOff),
	}
}

// GetWorkingHours получает недельный шаблон сотрудника
func (s *ScheduleStore) GetWorkingHours(_ context.Context, employeeID int64) (*domain.WorkingHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hours, ok := s.hours[employeeID]
	if !ok {
		return nil, schedule.ErrWorkingHoursNotConfigured
	}
	return cloneHours(hours), nil
}

// SetWorkingHours полностью перезаписывает шаблон
func (s *ScheduleStore) SetWorkingHours(_ context.Context, hours *domain.WorkingHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hours[hours.EmployeeID] = cloneHours(hours)
	return nil
}

// AddTimeOff добавляет отгул, повтор даты ничего не меняет
func (s *ScheduleStore) AddTimeOff(_ context.Context, timeOff *domain.TimeOff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey{timeOff.EmployeeID, timeOff.Date.Format(domain.DateFormat)}
	if _, ok := s.timeOff[key]; ok {
		return nil
	}

	stored := *timeOff
	s.timeOff[key] = &stored
	return nil
}

// GetTimeOff отгулы за период [from, to] по возрастанию даты
func (s *ScheduleStore) GetTimeOff(_ context.Context, employeeID int64, from, to time.Time) ([]*domain.TimeOff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fromKey := from.Format(domain.DateFormat)
	toKey := to.Format(domain.DateFormat)

	result := make([]*domain.TimeOff, 0)
	for key, t := range s.timeOff {
		if key.employeeID != employeeID || key.date < fromKey || key.date > toKey {
			continue
		}
		c := *t
		result = append(result, &c)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// IsDayOff проверяет наличие отгула на дату
func (s *ScheduleStore) IsDayOff(_ context.Context, employeeID int64, date time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.timeOff[dayKey{employeeID, date.Format(domain.DateFormat)}]
	return ok, nil
}

func cloneHours(h *domain.WorkingHours) *domain.WorkingHours {
	c := &domain.WorkingHours{
		EmployeeID: h.EmployeeID,
		Days:       make(map[time.Weekday]domain.DayHours, len(h.Days)),
		UpdatedAt:  h.UpdatedAt,
	}
	for weekday, day := range h.Days {
		c.Days[weekday] = day
	}
	return c
}
