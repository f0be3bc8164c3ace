package get_time_off

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
	"github.com/m04kA/SMC-SalonScheduler/internal/service/schedules"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/schedules/models"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
)

var salonLoc = time.FixedZone("salon", 3*60*60)

type mockService struct{ mock.Mock }

func (m *mockService) GetTimeOff(ctx context.Context, employeeID int64, from, to time.Time) (*models.TimeOffListResponse, error) {
	args := m.Called(ctx, employeeID, from, to)
	resp, _ := args.Get(0).(*models.TimeOffListResponse)
	return resp, args.Error(1)
}

func serve(svc *mockService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/employees/{employeeId}/time-off", NewHandler(svc, salonLoc, logger.Nop()).Handle)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &mockService{}
	from := time.Date(2025, 10, 1, 0, 0, 0, 0, salonLoc)
	to := time.Date(2025, 10, 31, 0, 0, 0, 0, salonLoc)
	svc.On("GetTimeOff", mock.Anything, int64(3),
		mock.MatchedBy(func(d time.Time) bool { return d.Equal(from) }),
		mock.MatchedBy(func(d time.Time) bool { return d.Equal(to) })).
		Return(&models.TimeOffListResponse{TimeOff: []models.TimeOffResponse{{EmployeeID: 3, Date: "2025-10-20"}}}, nil)

	rec := serve(svc, "/employees/3/time-off?from=2025-10-01&to=2025-10-31")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"date":"2025-10-20"`)
	svc.AssertExpectations(t)
}

func TestHandle_RequestErrors(t *testing.T) {
	cases := []struct {
		name   string
		target string
	}{
		{"bad employee id", "/employees/abc/time-off?from=2025-10-01&to=2025-10-31"},
		{"missing to", "/employees/3/time-off?from=2025-10-01"},
		{"bad date", "/employees/3/time-off?from=01.10.2025&to=2025-10-31"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockService{}

			rec := serve(svc, tc.target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			svc.AssertNotCalled(t, "GetTimeOff", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_ErrorCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{schedules.ErrInvalidInput, http.StatusBadRequest, handlers.CodeInvalidInput},
		{schedules.ErrEmployeeNotFound, http.StatusNotFound, handlers.CodeNotFound},
		{schedules.ErrInternal, http.StatusInternalServerError, handlers.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetTimeOff", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)

			rec := serve(svc, "/employees/3/time-off?from=2025-10-31&to=2025-10-01")

			assert.Equal(t, tc.status, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}
