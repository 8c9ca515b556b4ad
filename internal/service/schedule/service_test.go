package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/internal/infra/storage/memory"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// readOnlyTx считает вызовы и передаёт их в хранилище
type readOnlyTx struct {
	next  TransactionManager
	calls int
	err   error
}

func (r *readOnlyTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	return r.next.DoReadOnly(ctx, fn)
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func newStore() *memory.Store {
	store := memory.NewStore()
	store.AddEstablishment(domain.Establishment{ID: 1, Slug: "studio"})
	store.AddService(domain.Service{ID: 5, EstablishmentID: 1, DurationMinutes: 60, IsActive: true})
	store.AddService(domain.Service{ID: 6, EstablishmentID: 1, DurationMinutes: 30, IsActive: false})
	store.AddService(domain.Service{ID: 7, EstablishmentID: 2, DurationMinutes: 30, IsActive: true})
	store.AddService(domain.Service{ID: 8, EstablishmentID: 1, DurationMinutes: 0, IsActive: true})

	store.AddBlockedDate(domain.BlockedDate{EstablishmentID: 1, Date: day(11)})
	store.AddBlockedDate(domain.BlockedDate{EstablishmentID: 1, Date: time.Date(2020, 12, 25, 0, 0, 0, 0, time.UTC), IsRecurring: true})
	store.AddBlockedDate(domain.BlockedDate{EstablishmentID: 2, Date: day(11)})
	store.AddBlockedTime(domain.BlockedTime{EstablishmentID: 1, Date: day(10), StartTime: "12:00", EndTime: "13:00"})
	store.AddAppointment(domain.Appointment{EstablishmentID: 1, Date: day(10), StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed})
	store.AddAppointment(domain.Appointment{EstablishmentID: 1, Date: day(10), StartTime: "11:00", DurationMinutes: 60, Status: domain.StatusCancelled})
	store.AddAppointment(domain.Appointment{EstablishmentID: 2, Date: day(10), StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed})
	return store
}

func newService(store *memory.Store) *Service {
	return NewService(store.Establishments(), store.Catalog(), store.Blocking(), store.AppointmentRepo(), nopLogger{})
}

func TestLoadCalendar(t *testing.T) {
	store := newStore()

	calendar, err := newService(store).LoadCalendar(context.Background(), 1, day(10), day(12))
	require.NoError(t, err)

	assert.Len(t, calendar.BlockedDates, 2)
	assert.Len(t, calendar.BlockedTimes, 1)
	require.Len(t, calendar.Appointments, 1)
	assert.Equal(t, domain.StatusConfirmed, calendar.Appointments[0].Status)
}

func TestLoadCalendar_ReadsInOneReadOnlyTransaction(t *testing.T) {
	store := newStore()
	tx := &readOnlyTx{next: store.TxManager()}
	svc := newService(store).WithTxManager(tx)

	calendar, err := svc.LoadCalendar(context.Background(), 1, day(10), day(12))
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Len(t, calendar.BlockedDates, 2)
	assert.Len(t, calendar.Appointments, 1)
}

func TestLoadCalendar_TransactionError(t *testing.T) {
	store := newStore()
	svc := newService(store).WithTxManager(&readOnlyTx{err: errors.New("connection refused")})

	_, err := svc.LoadCalendar(context.Background(), 1, day(10), day(12))
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetEstablishment(t *testing.T) {
	svc := newService(newStore())

	est, err := svc.GetEstablishment(context.Background(), "studio")
	require.NoError(t, err)
	assert.Equal(t, int64(1), est.ID)

	_, err = svc.GetEstablishment(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrEstablishmentNotFound)
}

func TestGetBookableService(t *testing.T) {
	svc := newService(newStore())
	est := &domain.Establishment{ID: 1}

	got, err := svc.GetBookableService(context.Background(), est, 5)
	require.NoError(t, err)
	assert.Equal(t, 60, got.DurationMinutes)

	for _, id := range []int64{0, 6, 7, 404} {
		_, err := svc.GetBookableService(context.Background(), est, id)
		var validation *domain.ValidationError
		require.ErrorAs(t, err, &validation, "service %d", id)
		assert.Equal(t, "serviceId", validation.Field)
	}

	_, err = svc.GetBookableService(context.Background(), est, 8)
	assert.ErrorIs(t, err, domain.ErrConfig)
}
