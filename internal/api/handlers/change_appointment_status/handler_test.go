package change_appointment_status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/emer5om/horaly-pro-sub000/internal/api/middleware"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	uc "github.com/emer5om/horaly-pro-sub000/internal/usecase/change_appointment_status"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *uc.Request) (*uc.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*uc.Response)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, userID, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/establishments/{establishmentId}/appointments/{appointmentId}/status", h.Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_OK(t *testing.T) {
	useCase := &useCaseMock{}
	useCase.On("Execute", mock.Anything, &uc.Request{UserID: 42, EstablishmentID: 1, AppointmentID: 9, Event: "start"}).
		Return(&uc.Response{ID: 9, PreviousStatus: domain.StatusConfirmed, Status: domain.StatusStarted}, nil)

	w := serve(NewHandler(useCase, nopLogger{}), "42", "/establishments/1/appointments/9/status", `{"event":"start"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var body ChangeStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ChangeStatusResponse{ID: 9, PreviousStatus: "confirmed", Status: "started"}, body)
	useCase.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid transition", err: fmt.Errorf("%w: completed -> cancel", domain.ErrInvalidTransition), status: http.StatusConflict},
		{name: "unknown event", err: domain.NewValidationError("event", "unknown event"), status: http.StatusBadRequest},
		{name: "not owner", err: uc.ErrAccessDenied, status: http.StatusForbidden},
		{name: "unknown establishment", err: uc.ErrEstablishmentNotFound, status: http.StatusNotFound},
		{name: "unknown appointment", err: uc.ErrAppointmentNotFound, status: http.StatusNotFound},
		{name: "concurrent update", err: fmt.Errorf("%w: 40001", uc.ErrConcurrentUpdate), status: http.StatusConflict},
		{name: "internal", err: fmt.Errorf("%w: %w", uc.ErrInternal, errors.New("db")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useCase := &useCaseMock{}
			useCase.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(NewHandler(useCase, nopLogger{}), "42", "/establishments/1/appointments/9/status", `{"event":"cancel"}`)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandler_BadRequest(t *testing.T) {
	useCase := &useCaseMock{}
	h := NewHandler(useCase, nopLogger{})

	assert.Equal(t, http.StatusUnauthorized, serve(h, "", "/establishments/1/appointments/9/status", `{"event":"cancel"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "42", "/establishments/x/appointments/9/status", `{"event":"cancel"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "42", "/establishments/1/appointments/0/status", `{"event":"cancel"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "42", "/establishments/1/appointments/9/status", `not json`).Code)

	useCase.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
