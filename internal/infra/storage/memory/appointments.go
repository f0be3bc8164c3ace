// Package memory хранилище в памяти процесса для локального запуска (storage.driver = "memory") и тестов
// Возвращает те же ошибки, что и репозитории PostgreSQL
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/appointment"
)

type requestKey struct {
	clientID  int64
	requestID string
}

// AppointmentStore записи в памяти
// Проверка пересечения и вставка выполняются под одним мьютексом
type AppointmentStore struct {
	mu        sync.Mutex
	nextID    int64
	byID      map[int64]*domain.Appointment
	byRequest map[requestKey]int64
	now       func() time.Time
}

// NewAppointmentStore создает пустое хранилище записей
func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{
		byID:      make(map[int64]*domain.Appointment),
		byRequest: make(map[requestKey]int64),
		now:       time.Now,
	}
}

// InsertIfFree атомарно проверяет пересечения и создает запись
func (s *AppointmentStore) InsertIfFree(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.RequestID != nil && *a.RequestID != "" {
		if _, ok := s.byRequest[requestKey{a.ClientID, *a.RequestID}]; ok {
			return nil, appointment.ErrDuplicateRequest
		}
	}

	candidate := a.Interval()
	for _, existing := range s.byID {
		if existing.EmployeeID != a.EmployeeID || !existing.IsActive() {
			continue
		}
		if candidate.Overlaps(existing.Interval()) {
			return nil, appointment.ErrOverlap
		}
	}

	s.nextID++
	stored := clone(a)
	stored.ID = s.nextID
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt

	s.byID[stored.ID] = stored
	if stored.RequestID != nil && *stored.RequestID != "" {
		s.byRequest[requestKey{stored.ClientID, *stored.RequestID}] = stored.ID
	}

	return clone(stored), nil
}

// GetByID получает запись по ID
func (s *AppointmentStore) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return clone(a), nil
}

// GetByRequestID получает запись по клиентскому ключу идемпотентности
func (s *AppointmentStore) GetByRequestID(_ context.Context, clientID int64, requestID string) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byRequest[requestKey{clientID, requestID}]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return clone(s.byID[id]), nil
}

// ListByEmployeeAndDate записи сотрудника на дату по возрастанию времени начала
func (s *AppointmentStore) ListByEmployeeAndDate(_ context.Context, employeeID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range s.byID {
		if a.EmployeeID != employeeID || !domain.IsSameDay(a.StartTime, date) {
			continue
		}
		if activeOnly && !a.IsActive() {
			continue
		}
		result = append(result, clone(a))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

// ListByClient записи клиента, новые сверху
func (s *AppointmentStore) ListByClient(_ context.Context, clientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range s.byID {
		if a.ClientID != clientID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		result = append(result, clone(a))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.After(result[j].StartTime)
	})
	return result, nil
}

// UpdateStatus compare-and-swap статуса
func (s *AppointmentStore) UpdateStatus(
	_ context.Context,
	id int64,
	expected, target domain.AppointmentStatus,
	update domain.StatusUpdate,
) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok || a.Status != expected {
		return nil, appointment.ErrStatusMismatch
	}

	a.Status = target
	a.UpdatedAt = update.At

	switch target {
	case domain.StatusCompleted:
		a.CompletionNotes = update.CompletionNotes
		a.CompletedAt = &update.At
	case domain.StatusCancelled:
		a.CancelReason = update.CancelReason
		a.CancelledBy = update.CancelledBy
		a.CancelledAt = &update.At
	}

	return clone(a), nil
}

// AttachReview прикрепляет отзыв к завершённой записи без отзыва
func (s *AppointmentStore) AttachReview(_ context.Context, id int64, review domain.Review) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok || a.Status != domain.StatusCompleted || a.Review != nil {
		return nil, appointment.ErrStatusMismatch
	}

	a.Review = &review
	a.UpdatedAt = review.CreatedAt

	return clone(a), nil
}

// clone копия записи, чтобы вызывающий код не менял состояние хранилища
func clone(a *domain.Appointment) *domain.Appointment {
	c := *a
	if a.Review != nil {
		review := *a.Review
		c.Review = &review
	}
	return &c
}
