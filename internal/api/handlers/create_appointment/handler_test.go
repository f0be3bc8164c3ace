package create_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	createAppointment "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
)

var salonLoc = time.FixedZone("salon", 3*60*60)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createAppointment.Response)
	return resp, args.Error(1)
}

const body = `{"employeeId":5,"serviceId":3,"salonId":1,"startTime":"2025-10-13T10:00","notes":"коротко"}`

func serve(t *testing.T, uc *mockUseCase, payload, key string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(payload))
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 42, Role: domain.RoleClient}))

	rec := httptest.NewRecorder()
	NewHandler(uc, salonLoc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createAppointment.Request) bool {
		return req.ClientID == 42 &&
			req.StartTime.Equal(time.Date(2025, 10, 13, 10, 0, 0, 0, salonLoc)) &&
			req.RequestID != nil && *req.RequestID == "key-1"
	})).Return(&createAppointment.Response{Appointment: &domain.Appointment{
		ID:              7,
		EmployeeID:      5,
		ClientID:        42,
		StartTime:       time.Date(2025, 10, 13, 10, 0, 0, 0, salonLoc),
		DurationMinutes: 60,
		Status:          domain.StatusPending,
	}}, nil)

	rec := serve(t, uc, body, "key-1")

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(7), resp["id"])
	assert.Equal(t, "10:00", resp["startTime"])
	assert.Equal(t, "11:00", resp["endTime"])
	assert.Equal(t, "pending", resp["status"])
}

func TestHandle_Replayed(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&createAppointment.Response{
		Appointment: &domain.Appointment{ID: 7, StartTime: time.Date(2025, 10, 13, 10, 0, 0, 0, salonLoc)},
		Replayed:    true,
	}, nil)

	rec := serve(t, uc, body, "key-1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandle_ErrorCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{createAppointment.ErrInvalidInput, http.StatusBadRequest, handlers.CodeInvalidInput},
		{createAppointment.ErrForbidden, http.StatusForbidden, handlers.CodeForbidden},
		{createAppointment.ErrEmployeeNotFound, http.StatusNotFound, handlers.CodeNotFound},
		{createAppointment.ErrInvalidService, http.StatusBadRequest, handlers.CodeInvalidService},
		{createAppointment.ErrPastSlot, http.StatusBadRequest, handlers.CodePastSlot},
		{createAppointment.ErrSlotNoLongerAvailable, http.StatusConflict, handlers.CodeSlotNoLongerAvailable},
		{createAppointment.ErrInternal, http.StatusInternalServerError, handlers.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tc.err)

			rec := serve(t, uc, body, "")

			assert.Equal(t, tc.status, rec.Code)
			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Code)
			assert.NotContains(t, resp.Message, "create_appointment")
		})
	}
}

func TestHandle_BadInput(t *testing.T) {
	uc := &mockUseCase{}

	rec := serve(t, uc, `{"employeeId":5,"startTime":"13.10.2025 10:00"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, uc, `{`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_RFC3339StartIsConvertedToSalonTime(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createAppointment.Request) bool {
		return req.StartTime.Location() == salonLoc && req.StartTime.Hour() == 10
	})).Return(&createAppointment.Response{Appointment: &domain.Appointment{ID: 1}}, nil)

	rec := serve(t, uc, `{"employeeId":5,"serviceId":3,"salonId":1,"startTime":"2025-10-13T07:00:00Z"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
}
