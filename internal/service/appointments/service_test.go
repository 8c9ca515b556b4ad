package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/internal/infra/storage/memory"
	"github.com/emer5om/horaly-pro-sub000/internal/service/appointments/models"
	"github.com/emer5om/horaly-pro-sub000/internal/service/rules"
	"github.com/emer5om/horaly-pro-sub000/pkg/ptr"
	"github.com/emer5om/horaly-pro-sub000/pkg/types"
)

const ownerID int64 = 42

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func date(day int) time.Time {
	return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
}

func setup() (*memory.Store, *Service) {
	store := memory.NewStore()
	store.AddEstablishment(domain.Establishment{ID: 1, Slug: "studio", OwnerUserID: ownerID})
	store.AddEstablishment(domain.Establishment{ID: 2, Slug: "other", OwnerUserID: 7})

	access := rules.NewService(store.Establishments(), nopLogger{})
	return store, NewService(store.AppointmentRepo(), access, nopLogger{})
}

func addAppointment(store *memory.Store, establishmentID int64, day int, at string, status domain.AppointmentStatus) int64 {
	return store.AddAppointment(domain.Appointment{
		EstablishmentID: establishmentID,
		CustomerID:      1,
		ServiceID:       5,
		Date:            date(day),
		StartTime:       types.TimeString(at),
		DurationMinutes: 60,
		Status:          status,
		Price:           100,
		TotalPrice:      100,
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	store, svc := setup()
	id := addAppointment(store, 1, 10, "10:00", domain.StatusConfirmed)
	foreign := addAppointment(store, 2, 10, "10:00", domain.StatusConfirmed)

	t.Run("owner gets appointment", func(t *testing.T) {
		resp, err := svc.GetByID(ctx, 1, id, ownerID)
		require.NoError(t, err)
		assert.Equal(t, id, resp.ID)
		assert.Equal(t, "2025-03-10", resp.Date)
		assert.Equal(t, "10:00", resp.StartTime)
		assert.Equal(t, "confirmed", resp.Status)
	})

	t.Run("appointment of another establishment is not found", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 1, foreign, ownerID)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("not owner", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 1, id, 7)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown establishment", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 99, id, ownerID)
		assert.ErrorIs(t, err, ErrEstablishmentNotFound)
	})
}

func TestService_GetAgenda(t *testing.T) {
	ctx := context.Background()
	store, svc := setup()
	late := addAppointment(store, 1, 11, "15:00", domain.StatusConfirmed)
	early := addAppointment(store, 1, 11, "09:00", domain.StatusPending)
	cancelled := addAppointment(store, 1, 12, "10:00", domain.StatusCancelled)
	addAppointment(store, 1, 20, "10:00", domain.StatusConfirmed)
	addAppointment(store, 2, 11, "10:00", domain.StatusConfirmed)

	request := func(status *string) *models.GetAgendaRequest {
		return &models.GetAgendaRequest{
			EstablishmentID: 1,
			UserID:          ownerID,
			From:            date(10),
			To:              date(12),
			Status:          status,
		}
	}

	t.Run("period includes cancelled and is ordered", func(t *testing.T) {
		resp, err := svc.GetAgenda(ctx, request(nil))
		require.NoError(t, err)

		ids := make([]int64, 0, len(resp.Appointments))
		for _, a := range resp.Appointments {
			ids = append(ids, a.ID)
		}
		assert.Equal(t, []int64{early, late, cancelled}, ids)
	})

	t.Run("status filter", func(t *testing.T) {
		resp, err := svc.GetAgenda(ctx, request(ptr.Ptr("cancelled")))
		require.NoError(t, err)
		require.Len(t, resp.Appointments, 1)
		assert.Equal(t, cancelled, resp.Appointments[0].ID)
	})

	t.Run("empty period returns empty list", func(t *testing.T) {
		req := request(nil)
		req.From, req.To = date(1), date(2)

		resp, err := svc.GetAgenda(ctx, req)
		require.NoError(t, err)
		assert.NotNil(t, resp.Appointments)
		assert.Empty(t, resp.Appointments)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := svc.GetAgenda(ctx, request(ptr.Ptr("archived")))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("reversed period", func(t *testing.T) {
		req := request(nil)
		req.From, req.To = req.To, req.From

		_, err := svc.GetAgenda(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("period too long", func(t *testing.T) {
		req := request(nil)
		req.To = req.From.AddDate(0, 6, 0)

		_, err := svc.GetAgenda(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not owner", func(t *testing.T) {
		req := request(nil)
		req.UserID = 7

		_, err := svc.GetAgenda(ctx, req)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
