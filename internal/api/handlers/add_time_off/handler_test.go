package add_time_off

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/schedules"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/schedules/models"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) AddTimeOff(ctx context.Context, actor domain.Actor, employeeID int64, req *models.AddTimeOffRequest) (*models.TimeOffResponse, error) {
	args := m.Called(ctx, actor, employeeID, req)
	resp, _ := args.Get(0).(*models.TimeOffResponse)
	return resp, args.Error(1)
}

var employee = domain.Actor{UserID: 3, Role: domain.RoleEmployee}

func serve(svc *mockService, employeeID, payload string, withActor bool) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/employees/{employeeId}/time-off", NewHandler(svc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodPost, "/employees/"+employeeID+"/time-off", strings.NewReader(payload))
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), employee))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	svc := &mockService{}
	svc.On("AddTimeOff", mock.Anything, employee, int64(3), &models.AddTimeOffRequest{Date: "2025-10-20", Reason: "Отпуск"}).
		Return(&models.TimeOffResponse{EmployeeID: 3, Date: "2025-10-20", Reason: "Отпуск"}, nil)

	rec := serve(svc, "3", `{"date":"2025-10-20","reason":"Отпуск"}`, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"date":"2025-10-20"`)
	svc.AssertExpectations(t)
}

func TestHandle_RequestErrors(t *testing.T) {
	cases := []struct {
		name       string
		employeeID string
		payload    string
		withActor  bool
		status     int
	}{
		{"no actor", "3", `{"date":"2025-10-20"}`, false, http.StatusUnauthorized},
		{"bad employee id", "abc", `{"date":"2025-10-20"}`, true, http.StatusBadRequest},
		{"unknown field", "3", `{"date":"2025-10-20","hours":8}`, true, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockService{}

			rec := serve(svc, tc.employeeID, tc.payload, tc.withActor)

			assert.Equal(t, tc.status, rec.Code)
			svc.AssertNotCalled(t, "AddTimeOff", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_ErrorCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{schedules.ErrForbidden, http.StatusForbidden, handlers.CodeForbidden},
		{schedules.ErrInvalidInput, http.StatusBadRequest, handlers.CodeInvalidInput},
		{schedules.ErrEmployeeNotFound, http.StatusNotFound, handlers.CodeNotFound},
		{schedules.ErrInternal, http.StatusInternalServerError, handlers.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			svc := &mockService{}
			svc.On("AddTimeOff", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)

			rec := serve(svc, "3", `{"date":"2025-10-20"}`, true)

			assert.Equal(t, tc.status, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}
