package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	createBooking "github.com/emer5om/horaly-pro-sub000/internal/usecase/create_booking"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBooking.Response)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const validBody = `{
	"serviceId": 5,
	"date": "2025-03-10",
	"time": "10:00",
	"customer": {"name": "Ana", "phone": "(11) 98888-7777", "birthDate": "1990-05-20"},
	"couponCode": "PROMO10"
}`

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/establishments/{slug}/bookings", h.Handle).Methods(http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/establishments/studio/bookings", strings.NewReader(body)))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandler_Created(t *testing.T) {
	useCase := &useCaseMock{}
	useCase.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.EstablishmentSlug == "studio" &&
			req.ServiceID == 5 &&
			req.Date.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) &&
			req.StartTime == "10:00" &&
			req.Customer.Phone == "(11) 98888-7777" &&
			req.Customer.BirthDate != nil &&
			req.CouponCode != nil && *req.CouponCode == "PROMO10"
	})).Return(&createBooking.Response{
		ID:              77,
		EstablishmentID: 1,
		CustomerID:      3,
		ServiceID:       5,
		Date:            time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
		Price:           90,
		DiscountAmount:  9,
		TotalPrice:      81,
		CreatedAt:       time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
	}, nil)

	w := serve(NewHandler(useCase, nopLogger{}), validBody)

	require.Equal(t, http.StatusCreated, w.Code)
	var body AppointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(77), body.ID)
	assert.Equal(t, "2025-03-10", body.Date)
	assert.Equal(t, "10:00", body.Time)
	assert.Equal(t, "confirmed", body.Status)
	assert.Equal(t, 81.0, body.TotalPrice)
	useCase.AssertExpectations(t)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
		field  string
	}{
		{name: "occupied", err: &domain.ConflictError{Reason: domain.ConflictOccupied}, status: http.StatusConflict, reason: "occupied"},
		{name: "past", err: &domain.ConflictError{Reason: domain.ConflictPast}, status: http.StatusConflict, reason: "past"},
		{name: "quota", err: &domain.QuotaError{Limit: 10, Used: 10}, status: http.StatusUnprocessableEntity},
		{name: "validation", err: domain.NewValidationError("customer.email", "is invalid"), status: http.StatusBadRequest, field: "customer.email"},
		{name: "not found", err: createBooking.ErrEstablishmentNotFound, status: http.StatusNotFound},
		{name: "config", err: &domain.ConfigError{EstablishmentID: 1, Field: "working_hours.monday", Message: "start after end"}, status: http.StatusServiceUnavailable},
		{name: "concurrent update", err: fmt.Errorf("%w: 40001", createBooking.ErrConcurrentUpdate), status: http.StatusConflict},
		{name: "internal", err: errors.New("db down"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useCase := &useCaseMock{}
			useCase.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(NewHandler(useCase, nopLogger{}), validBody)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.NotEmpty(t, body["error"])
			if tt.reason != "" {
				assert.Equal(t, tt.reason, body["reason"])
			}
			if tt.field != "" {
				assert.Equal(t, tt.field, body["field"])
			}
		})
	}
}

func TestHandler_BadInput(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "malformed json", body: `{`},
		{name: "unknown field", body: `{"serviceId": 5, "carId": 1}`},
		{name: "bad date", body: `{"serviceId": 5, "date": "10/03/2025", "time": "10:00"}`, field: "date"},
		{name: "bad time", body: `{"serviceId": 5, "date": "2025-03-10", "time": "25:00"}`, field: "time"},
		{name: "bad birth date", body: `{"serviceId": 5, "date": "2025-03-10", "time": "10:00", "customer": {"birthDate": "x"}}`, field: "customer.birth_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useCase := &useCaseMock{}

			w := serve(NewHandler(useCase, nopLogger{}), tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			if tt.field != "" {
				assert.Equal(t, tt.field, decode(t, w)["field"])
			}
			useCase.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}
