package establishment

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/internal/infra/storage/storagetest"
	"github.com/emer5om/horaly-pro-sub000/pkg/dbmetrics"
)

type warnLogger struct {
	warnings []string
}

func (l *warnLogger) Warn(format string, v ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, v...))
}

func establishmentRow(latest string) []driver.Value {
	created := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	return []driver.Value{
		int64(1), "studio", "Studio", "America/Sao_Paulo", int64(9),
		[]byte(`{"monday":{"is_open":true,"start_time":"09:00","end_time":"18:00"}}`),
		int64(2), "+1 day", latest,
		[]byte(`["email","shoe_size"]`),
		nil, true, 15.0, false,
		created, created,
	}
}

func TestGetBySlug(t *testing.T) {
	db, rec := storagetest.New(t)
	rec.RespondRows(columns, establishmentRow("+2 weeks"))
	logger := &warnLogger{}
	repo := NewRepository(db, logger)

	est, err := repo.GetBySlug(context.Background(), "studio")
	require.NoError(t, err)

	assert.Equal(t, int64(1), est.ID)
	assert.Equal(t, 2, est.SlotsPerHour)
	assert.Equal(t, domain.EarliestPlus1Day, est.EarliestBookingTime)
	assert.Equal(t, domain.LatestPlus2Weeks, est.LatestBookingTime)
	assert.True(t, est.WorkingHours[domain.Monday].IsOpen)
	assert.Equal(t, []domain.CustomerField{domain.FieldEmail}, est.RequiredCustomerFields)
	assert.Nil(t, est.PlanID)
	assert.Len(t, logger.warnings, 1)

	q := rec.Last(t)
	assert.Regexp(t, `FROM establishments WHERE slug = \$1$`, q.SQL)
	assert.Equal(t, []interface{}{"studio"}, q.Args)
}

func TestGetBySlug_UnknownPolicyFallsBack(t *testing.T) {
	db, rec := storagetest.New(t)
	rec.RespondRows(columns, establishmentRow("sometime"))
	logger := &warnLogger{}
	repo := NewRepository(db, logger)

	est, err := repo.GetBySlug(context.Background(), "studio")
	require.NoError(t, err)

	assert.Equal(t, domain.LatestNoLimit, est.LatestBookingTime)
	assert.Len(t, logger.warnings, 2)
}

func TestGetByID_NotFound(t *testing.T) {
	db, rec := storagetest.New(t)
	repo := NewRepository(db, &warnLogger{})

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrEstablishmentNotFound)
	assert.Regexp(t, `FROM establishments WHERE id = \$1$`, rec.Last(t).SQL)
}

func TestLockForBooking(t *testing.T) {
	db, rec := storagetest.New(t)
	repo := NewRepository(db, &warnLogger{})

	// Вне транзакции блокировать нечего
	require.NoError(t, repo.LockForBooking(context.Background(), 1))
	assert.Empty(t, rec.Queries())

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	require.NoError(t, repo.LockForBooking(dbmetrics.WithReadOnlyTx(context.Background(), tx), 1))
	assert.Empty(t, rec.Queries())

	txCtx := dbmetrics.WithTx(context.Background(), tx)
	err = repo.LockForBooking(txCtx, 1)
	assert.ErrorIs(t, err, ErrEstablishmentNotFound)

	rec.RespondRows([]string{"id"}, []driver.Value{int64(1)})
	require.NoError(t, repo.LockForBooking(txCtx, 1))

	q := rec.Last(t)
	assert.Equal(t, "SELECT id FROM establishments WHERE id = $1 FOR UPDATE", q.SQL)
	assert.Equal(t, []interface{}{int64(1)}, q.Args)
	assert.Len(t, rec.Queries(), 2)
}

func TestUpdateBookingRules(t *testing.T) {
	db, rec := storagetest.New(t)
	repo := NewRepository(db, &warnLogger{})

	rules := domain.BookingRules{
		WorkingHours:           domain.WorkingHours{domain.Monday: {IsOpen: true, StartTime: "09:00", EndTime: "18:00"}},
		SlotsPerHour:           2,
		EarliestBookingTime:    domain.EarliestPlus1Day,
		LatestBookingTime:      domain.LatestPlus2Weeks,
		RequiredCustomerFields: []domain.CustomerField{domain.FieldEmail},
	}

	_, err := repo.UpdateBookingRules(context.Background(), 404, rules)
	assert.ErrorIs(t, err, ErrEstablishmentNotFound)

	rec.RespondRows(columns, establishmentRow("+2 weeks"))
	est, err := repo.UpdateBookingRules(context.Background(), 1, rules)
	require.NoError(t, err)
	assert.Equal(t, "studio", est.Slug)

	q := rec.Last(t)
	assert.Contains(t, q.SQL, "UPDATE establishments SET working_hours = $1, slots_per_hour = $2, earliest_booking_time = $3, latest_booking_time = $4, required_customer_fields = $5, updated_at = NOW() WHERE id = $6 RETURNING id, slug,")
	require.Len(t, q.Args, 6)
	assert.JSONEq(t, `{"monday":{"is_open":true,"start_time":"09:00","end_time":"18:00"}}`, q.Args[0].(string))
	assert.Equal(t, "+1 day", q.Args[2])
	assert.JSONEq(t, `["email"]`, q.Args[4].(string))
	assert.Equal(t, int64(1), q.Args[5])
}
