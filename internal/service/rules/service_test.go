package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/internal/infra/storage/memory"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newService() *Service {
	store := memory.NewStore()
	store.AddEstablishment(domain.Establishment{
		ID:          1,
		Slug:        "studio",
		OwnerUserID: 42,
		WorkingHours: domain.WorkingHours{
			domain.Monday: {IsOpen: true, StartTime: "09:00", EndTime: "18:00"},
		},
		SlotsPerHour:        2,
		EarliestBookingTime: domain.EarliestPlus1Day,
		LatestBookingTime:   domain.LatestPlus2Weeks,
	})
	return NewService(store.Establishments(), nopLogger{})
}

func TestService_Authorize(t *testing.T) {
	svc := newService()

	est, err := svc.Authorize(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Equal(t, "studio", est.Slug)

	_, err = svc.Authorize(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Authorize(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Authorize(context.Background(), 9, 42)
	assert.ErrorIs(t, err, ErrEstablishmentNotFound)
}

func TestService_GetBookingRules(t *testing.T) {
	svc := newService()

	rules, err := svc.GetBookingRules(context.Background(), 1, 42)
	require.NoError(t, err)

	assert.Len(t, rules.WorkingHours, 7)
	assert.True(t, rules.WorkingHours["monday"].IsOpen)
	assert.False(t, rules.WorkingHours["sunday"].IsOpen)
	assert.Equal(t, 2, rules.SlotsPerHour)
	assert.Equal(t, "+1 day", rules.EarliestBookingTime)
	assert.Equal(t, "+2 weeks", rules.LatestBookingTime)
	assert.Equal(t, []string{"name"}, rules.RequiredCustomerFields)
}
