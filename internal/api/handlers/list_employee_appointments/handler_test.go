package list_employee_appointments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/appointments"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
)

var (
	salonLoc = time.FixedZone("salon", 3*60*60)
	employee = domain.Actor{UserID: 5, Role: domain.RoleEmployee}
)

type mockService struct{ mock.Mock }

func (m *mockService) ListEmployeeAppointments(ctx context.Context, actor domain.Actor, employeeID int64, date time.Time) (*models.AppointmentListResponse, error) {
	args := m.Called(ctx, actor, employeeID, date)
	resp, _ := args.Get(0).(*models.AppointmentListResponse)
	return resp, args.Error(1)
}

func serve(svc *mockService, target string, withActor bool) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/employees/{employeeId}/appointments", NewHandler(svc, salonLoc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), employee))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &mockService{}
	date := time.Date(2025, 10, 13, 0, 0, 0, 0, salonLoc)
	svc.On("ListEmployeeAppointments", mock.Anything, employee, int64(5),
		mock.MatchedBy(func(d time.Time) bool { return d.Equal(date) })).
		Return(&models.AppointmentListResponse{Appointments: []models.AppointmentResponse{{ID: 1}, {ID: 2}}}, nil)

	rec := serve(svc, "/employees/5/appointments?date=2025-10-13", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.AppointmentListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Appointments, 2)
}

func TestHandle_RequestErrors(t *testing.T) {
	cases := []struct {
		name      string
		target    string
		withActor bool
		status    int
	}{
		{"no actor", "/employees/5/appointments?date=2025-10-13", false, http.StatusUnauthorized},
		{"bad employee id", "/employees/x/appointments?date=2025-10-13", true, http.StatusBadRequest},
		{"missing date", "/employees/5/appointments", true, http.StatusBadRequest},
		{"bad date", "/employees/5/appointments?date=13.10.2025", true, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockService{}

			rec := serve(svc, tc.target, tc.withActor)

			assert.Equal(t, tc.status, rec.Code)
			svc.AssertNotCalled(t, "ListEmployeeAppointments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_ErrorCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{appointments.ErrForbidden, http.StatusForbidden, handlers.CodeForbidden},
		{appointments.ErrEmployeeNotFound, http.StatusNotFound, handlers.CodeNotFound},
		{appointments.ErrInternal, http.StatusInternalServerError, handlers.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			svc := &mockService{}
			svc.On("ListEmployeeAppointments", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)

			rec := serve(svc, "/employees/5/appointments?date=2025-10-13", true)

			assert.Equal(t, tc.status, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}
