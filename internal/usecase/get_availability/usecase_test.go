package get_availability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduler/pkg/retry"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

var salonLoc = time.FixedZone("salon", 3*60*60)

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) GetService(ctx context.Context, id int64) (*catalog.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*catalog.Service)
	return s, args.Error(1)
}

func (m *mockCatalog) GetEmployee(ctx context.Context, id int64) (*catalog.Employee, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*catalog.Employee)
	return e, args.Error(1)
}

type mockHours struct{ mock.Mock }

func (m *mockHours) GetWorkingHours(ctx context.Context, employeeID int64) (*domain.WorkingHours, error) {
	args := m.Called(ctx, employeeID)
	h, _ := args.Get(0).(*domain.WorkingHours)
	return h, args.Error(1)
}

type mockTimeOff struct{ mock.Mock }

func (m *mockTimeOff) IsDayOff(ctx context.Context, employeeID int64, date time.Time) (bool, error) {
	args := m.Called(ctx, employeeID, date)
	return args.Bool(0), args.Error(1)
}

type mockAppointments struct{ mock.Mock }

func (m *mockAppointments) ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error) {
	args := m.Called(ctx, employeeID, date, activeOnly)
	list, _ := args.Get(0).([]*domain.Appointment)
	return list, args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	catalog      *mockCatalog
	hours        *mockHours
	timeOff      *mockTimeOff
	appointments *mockAppointments
	uc           *UseCase
}

// 2025-10-13 - понедельник
var monday = time.Date(2025, 10, 13, 0, 0, 0, 0, salonLoc)

func at(hour, minute int) time.Time {
	return time.Date(2025, 10, 13, hour, minute, 0, 0, salonLoc)
}

func newFixture(now time.Time, settings Settings) *fixture {
	f := &fixture{
		catalog:      &mockCatalog{},
		hours:        &mockHours{},
		timeOff:      &mockTimeOff{},
		appointments: &mockAppointments{},
	}
	settings.Location = salonLoc
	settings.Retry = retry.Policy{Attempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
	f.uc = NewUseCase(f.catalog, f.hours, f.timeOff, f.appointments, settings, logger.Nop()).
		WithTimeProvider(fixedTime{now: now})
	return f
}

func (f *fixture) withCatalog(duration int) {
	f.catalog.On("GetEmployee", mock.Anything, int64(5)).
		Return(&catalog.Employee{ID: 5, SalonID: 1, Active: true}, nil)
	f.catalog.On("GetService", mock.Anything, int64(3)).
		Return(&catalog.Service{ID: 3, SalonID: 1, DurationMinutes: duration, EmployeeIDs: []int64{5}}, nil)
}

func (f *fixture) withSchedule(dayOff bool, booked []*domain.Appointment) {
	f.hours.On("GetWorkingHours", mock.Anything, int64(5)).Return(&domain.WorkingHours{
		EmployeeID: 5,
		Days: map[time.Weekday]domain.DayHours{
			time.Monday: {Start: "09:00", End: "18:00"},
		},
	}, nil)
	f.timeOff.On("IsDayOff", mock.Anything, int64(5), monday).Return(dayOff, nil)
	f.appointments.On("ListByEmployeeAndDate", mock.Anything, int64(5), monday, true).Return(booked, nil)
}

func request() *Request {
	return &Request{EmployeeID: 5, ServiceID: 3, Date: monday}
}

func TestExecute_FullDay(t *testing.T) {
	f := newFixture(monday.Add(-12*time.Hour), Settings{SlotStepMinutes: 30})
	f.withCatalog(60)
	f.withSchedule(false, nil)

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)

	assert.True(t, resp.Configured)
	assert.False(t, resp.DayOff)
	assert.Equal(t, 60, resp.DurationMinutes)
	require.Len(t, resp.Slots, 17)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0])
	assert.Equal(t, types.TimeString("17:00"), resp.Slots[16])
}

func TestExecute_BookedRangeExcluded(t *testing.T) {
	f := newFixture(monday.Add(-12*time.Hour), Settings{SlotStepMinutes: 30})
	f.withCatalog(60)
	f.withSchedule(false, []*domain.Appointment{
		{ID: 1, EmployeeID: 5, StartTime: at(10, 0), DurationMinutes: 60, Status: domain.StatusPending},
	})

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)

	assert.NotContains(t, resp.Slots, types.TimeString("09:30"))
	assert.NotContains(t, resp.Slots, types.TimeString("10:30"))
	assert.Contains(t, resp.Slots, types.TimeString("09:00"))
	assert.Contains(t, resp.Slots, types.TimeString("11:00"))
}

func TestExecute_DayOff(t *testing.T) {
	f := newFixture(monday.Add(-12*time.Hour), Settings{SlotStepMinutes: 30})
	f.withCatalog(60)
	f.withSchedule(true, nil)

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)

	assert.True(t, resp.DayOff)
	assert.Empty(t, resp.Slots)
}

func TestExecute_NotConfigured(t *testing.T) {
	f := newFixture(monday.Add(-12*time.Hour), Settings{SlotStepMinutes: 30})
	f.withCatalog(60)
	f.hours.On("GetWorkingHours", mock.Anything, int64(5)).Return(nil, schedule.ErrWorkingHoursNotConfigured).Once()
	f.timeOff.On("IsDayOff", mock.Anything, int64(5), monday).Return(false, nil)
	f.appointments.On("ListByEmployeeAndDate", mock.Anything, int64(5), monday, true).Return(nil, nil)

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)

	assert.False(t, resp.Configured)
	assert.Empty(t, resp.Slots)
	// Ненастроенный шаблон не повторяется
	f.hours.AssertNumberOfCalls(t, "GetWorkingHours", 1)
}

func TestExecute_TodayDropsPastAndNotice(t *testing.T) {
	f := newFixture(at(12, 10), Settings{SlotStepMinutes: 30, MinBookingNoticeMinutes: 60})
	f.withCatalog(60)
	f.withSchedule(false, nil)

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("13:30"), resp.Slots[0])
	assert.Equal(t, types.TimeString("17:00"), resp.Slots[len(resp.Slots)-1])
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, 1), Settings{SlotStepMinutes: 30})
	f.withCatalog(60)
	f.withSchedule(false, nil)

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_BeyondHorizon(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -10), Settings{SlotStepMinutes: 30, AdvanceBookingDays: 7})
	f.withCatalog(60)

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	f.hours.AssertNotCalled(t, "GetWorkingHours", mock.Anything, mock.Anything)
}

func TestExecute_TransientCatalogErrorIsRetried(t *testing.T) {
	f := newFixture(monday.Add(-12*time.Hour), Settings{SlotStepMinutes: 30})
	f.catalog.On("GetEmployee", mock.Anything, int64(5)).
		Return(nil, fmt.Errorf("%w: status 503", catalog.ErrUnavailable)).Once()
	f.withCatalog(60)
	f.withSchedule(false, nil)

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 17)
	f.catalog.AssertNumberOfCalls(t, "GetEmployee", 2)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name:    "нет даты",
			req:     &Request{EmployeeID: 5, ServiceID: 3},
			setup:   func(f *fixture) {},
			wantErr: ErrInvalidInput,
		},
		{
			name: "сотрудник не найден",
			req:  request(),
			setup: func(f *fixture) {
				f.catalog.On("GetEmployee", mock.Anything, int64(5)).Return(nil, catalog.ErrEmployeeNotFound)
			},
			wantErr: ErrEmployeeNotFound,
		},
		{
			name: "услуга не найдена",
			req:  request(),
			setup: func(f *fixture) {
				f.catalog.On("GetEmployee", mock.Anything, int64(5)).Return(&catalog.Employee{ID: 5, SalonID: 1, Active: true}, nil)
				f.catalog.On("GetService", mock.Anything, int64(3)).Return(nil, catalog.ErrServiceNotFound)
			},
			wantErr: ErrInvalidService,
		},
		{
			name: "сотрудник не оказывает услугу",
			req:  request(),
			setup: func(f *fixture) {
				f.catalog.On("GetEmployee", mock.Anything, int64(5)).Return(&catalog.Employee{ID: 5, SalonID: 1, Active: true}, nil)
				f.catalog.On("GetService", mock.Anything, int64(3)).
					Return(&catalog.Service{ID: 3, SalonID: 1, DurationMinutes: 60, EmployeeIDs: []int64{6}}, nil)
			},
			wantErr: ErrInvalidService,
		},
		{
			name: "услуга другого салона",
			req:  request(),
			setup: func(f *fixture) {
				f.catalog.On("GetEmployee", mock.Anything, int64(5)).Return(&catalog.Employee{ID: 5, SalonID: 1, Active: true}, nil)
				f.catalog.On("GetService", mock.Anything, int64(3)).
					Return(&catalog.Service{ID: 3, SalonID: 2, DurationMinutes: 60, EmployeeIDs: []int64{5}}, nil)
			},
			wantErr: ErrInvalidService,
		},
		{
			name: "каталог недоступен",
			req:  request(),
			setup: func(f *fixture) {
				f.catalog.On("GetEmployee", mock.Anything, int64(5)).Return(nil, catalog.ErrUnavailable)
			},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(monday.Add(-12*time.Hour), Settings{SlotStepMinutes: 30})
			tt.setup(f)

			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
