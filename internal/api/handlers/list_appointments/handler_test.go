package list_appointments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer5om/horaly-pro-sub000/internal/api/handlers/get_appointment"
	"github.com/emer5om/horaly-pro-sub000/internal/api/middleware"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/internal/infra/storage/memory"
	"github.com/emer5om/horaly-pro-sub000/internal/service/appointments"
	"github.com/emer5om/horaly-pro-sub000/internal/service/appointments/models"
	"github.com/emer5om/horaly-pro-sub000/internal/service/rules"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// newRouter поднимает оба read-маршрута агенды поверх хранилища в памяти
func newRouter(t *testing.T) (*mux.Router, int64) {
	t.Helper()

	store := memory.NewStore()
	store.AddEstablishment(domain.Establishment{ID: 1, Slug: "studio", OwnerUserID: 42})

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	id := store.AddAppointment(domain.Appointment{
		EstablishmentID: 1, CustomerID: 3, ServiceID: 5, Date: day,
		StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed, Price: 90, TotalPrice: 90,
	})
	store.AddAppointment(domain.Appointment{
		EstablishmentID: 1, CustomerID: 4, ServiceID: 5, Date: day,
		StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusCancelled, Price: 90, TotalPrice: 90,
	})

	svc := appointments.NewService(store.AppointmentRepo(), rules.NewService(store.Establishments(), nopLogger{}), nopLogger{})

	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/establishments/{establishmentId}/appointments", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)
	r.HandleFunc("/establishments/{establishmentId}/appointments/{appointmentId}", get_appointment.NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)
	return r, id
}

func get(r http.Handler, target, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(middleware.UserIDHeader, userID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListAppointments(t *testing.T) {
	r, _ := newRouter(t)

	w := get(r, "/establishments/1/appointments?from=2025-03-01&to=2025-03-31", "42")
	require.Equal(t, http.StatusOK, w.Code)

	var body models.AppointmentListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Appointments, 2)
	assert.Equal(t, "09:00", body.Appointments[0].StartTime)
	assert.Equal(t, "cancelled", body.Appointments[0].Status)

	w = get(r, "/establishments/1/appointments?from=2025-03-01&to=2025-03-31&status=confirmed", "42")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Appointments, 1)
	assert.Equal(t, "10:00", body.Appointments[0].StartTime)
}

func TestListAppointments_Errors(t *testing.T) {
	r, _ := newRouter(t)

	tests := []struct {
		name   string
		target string
		userID string
		status int
	}{
		{name: "missing from", target: "/establishments/1/appointments?to=2025-03-31", userID: "42", status: http.StatusBadRequest},
		{name: "reversed period", target: "/establishments/1/appointments?from=2025-03-31&to=2025-03-01", userID: "42", status: http.StatusBadRequest},
		{name: "unknown status", target: "/establishments/1/appointments?from=2025-03-01&to=2025-03-31&status=done", userID: "42", status: http.StatusBadRequest},
		{name: "not owner", target: "/establishments/1/appointments?from=2025-03-01&to=2025-03-31", userID: "7", status: http.StatusForbidden},
		{name: "unknown establishment", target: "/establishments/5/appointments?from=2025-03-01&to=2025-03-31", userID: "42", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, get(r, tt.target, tt.userID).Code)
		})
	}
}

func TestGetAppointment(t *testing.T) {
	r, id := newRouter(t)

	w := get(r, "/establishments/1/appointments/"+itoa(id), "42")
	require.Equal(t, http.StatusOK, w.Code)

	var body models.AppointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, id, body.ID)
	assert.Equal(t, "2025-03-10", body.Date)

	assert.Equal(t, http.StatusNotFound, get(r, "/establishments/1/appointments/999", "42").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/establishments/1/appointments/"+itoa(id), "7").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/establishments/1/appointments/abc", "42").Code)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
