package get_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func (m *mockService) GetAppointment(ctx context.Context, actor domain.Actor, id int64) (*models.AppointmentResponse, error) {
	args := m.Called(ctx, actor, id)
	resp, _ := args.Get(0).(*models.AppointmentResponse)
	return resp, args.Error(1)
}

var client = domain.Actor{UserID: 42, Role: domain.RoleClient}

func serve(svc *mockService, appointmentID string, withActor bool) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/appointments/{appointmentId}", NewHandler(svc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodGet, "/appointments/"+appointmentID, nil)
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), client))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &mockService{}
	svc.On("GetAppointment", mock.Anything, client, int64(7)).
		Return(&models.AppointmentResponse{ID: 7, Status: "pending"}, nil)

	rec := serve(svc, "7", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
}

func TestHandle_RequestErrors(t *testing.T) {
	svc := &mockService{}

	assert.Equal(t, http.StatusUnauthorized, serve(svc, "7", false).Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "seven", true).Code)
	svc.AssertNotCalled(t, "GetAppointment", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_ErrorCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{appointments.ErrAppointmentNotFound, http.StatusNotFound, handlers.CodeNotFound},
		{appointments.ErrForbidden, http.StatusForbidden, handlers.CodeForbidden},
		{appointments.ErrInternal, http.StatusInternalServerError, handlers.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetAppointment", mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)

			rec := serve(svc, "7", true)

			assert.Equal(t, tc.status, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}
