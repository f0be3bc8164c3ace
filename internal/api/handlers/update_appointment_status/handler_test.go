package update_appointment_status

import (
	"context"
	"encoding/json"
	"fmt"
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
	"github.com/m04kA/SMC-SalonScheduler/internal/service/appointments"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	args := m.Called(ctx, actor, id, req)
	resp, _ := args.Get(0).(*models.AppointmentResponse)
	return resp, args.Error(1)
}

func serve(svc *mockService, appointmentID, payload string, withActor bool) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/appointments/{appointmentId}/status", NewHandler(svc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+appointmentID+"/status", strings.NewReader(payload))
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 5, Role: domain.RoleEmployee}))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &mockService{}
	svc.On("UpdateStatus", mock.Anything, domain.Actor{UserID: 5, Role: domain.RoleEmployee}, int64(7),
		&models.UpdateStatusRequest{Status: "completed"}).
		Return(&models.AppointmentResponse{ID: 7, Status: "completed"}, nil)

	rec := serve(svc, "7", `{"status":"completed"}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)
}

func TestHandle_ErrorCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{appointments.ErrInvalidInput, http.StatusBadRequest, handlers.CodeInvalidInput},
		{appointments.ErrAppointmentNotFound, http.StatusNotFound, handlers.CodeNotFound},
		{appointments.ErrForbidden, http.StatusForbidden, handlers.CodeForbidden},
		{appointments.ErrPastSlot, http.StatusBadRequest, handlers.CodePastSlot},
		{fmt.Errorf("%w: appointment is cancelled", appointments.ErrInvalidTransition), http.StatusConflict, handlers.CodeInvalidTransition},
		{appointments.ErrInternal, http.StatusInternalServerError, handlers.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			svc := &mockService{}
			svc.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)

			rec := serve(svc, "7", `{"status":"cancelled","reason":"x"}`, true)

			assert.Equal(t, tc.status, rec.Code)
			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Code)
		})
	}
}

func TestHandle_BadRequest(t *testing.T) {
	svc := &mockService{}

	assert.Equal(t, http.StatusBadRequest, serve(svc, "abc", `{"status":"completed"}`, true).Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "7", `{"state":"completed"}`, true).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(svc, "7", `{"status":"completed"}`, false).Code)

	svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
