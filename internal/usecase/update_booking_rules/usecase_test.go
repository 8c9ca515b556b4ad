package update_booking_rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/internal/infra/storage/memory"
	"github.com/emer5om/horaly-pro-sub000/internal/service/rules"
)

const ownerID int64 = 42

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type cacheMock struct{ mock.Mock }

func (m *cacheMock) Invalidate(ctx context.Context, establishmentID int64) error {
	return m.Called(ctx, establishmentID).Error(0)
}

func setup() (*memory.Store, *cacheMock, *UseCase) {
	store := memory.NewStore()
	store.AddEstablishment(domain.Establishment{
		ID:                  1,
		Slug:                "studio",
		OwnerUserID:         ownerID,
		SlotsPerHour:        1,
		EarliestBookingTime: domain.EarliestSameDay,
		LatestBookingTime:   domain.LatestNoLimit,
	})

	cache := &cacheMock{}
	access := rules.NewService(store.Establishments(), nopLogger{})
	return store, cache, NewUseCase(access, store.Establishments(), cache, nopLogger{})
}

func validRequest() *Request {
	return &Request{
		UserID:          ownerID,
		EstablishmentID: 1,
		WorkingHours: map[string]DayScheduleInput{
			"Monday":  {IsOpen: true, StartTime: "9:00", EndTime: "18:00"},
			"tuesday": {IsOpen: true, StartTime: "10:00", EndTime: "16:30"},
			"sunday":  {IsOpen: false, StartTime: "10:00", EndTime: "12:00"},
		},
		SlotsPerHour:           3,
		EarliestBookingTime:    "+2 days",
		LatestBookingTime:      "+1 month",
		RequiredCustomerFields: []string{"name", "email", "email"},
	}
}

func TestExecute_SavesRules(t *testing.T) {
	store, cache, uc := setup()
	cache.On("Invalidate", mock.Anything, int64(1)).Return(nil).Once()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	est := resp.Establishment
	assert.Len(t, est.WorkingHours, 7)
	assert.Equal(t, domain.DaySchedule{IsOpen: true, StartTime: "09:00", EndTime: "18:00"}, est.WorkingHours[domain.Monday])
	assert.Equal(t, domain.DaySchedule{IsOpen: true, StartTime: "10:00", EndTime: "16:30"}, est.WorkingHours[domain.Tuesday])
	assert.Equal(t, domain.DaySchedule{IsOpen: false}, est.WorkingHours[domain.Sunday])
	assert.Equal(t, domain.DaySchedule{IsOpen: false}, est.WorkingHours[domain.Wednesday])
	assert.Equal(t, 3, est.SlotsPerHour)
	assert.Equal(t, domain.EarliestPlus2Days, est.EarliestBookingTime)
	assert.Equal(t, domain.LatestPlus1Month, est.LatestBookingTime)
	assert.Equal(t, []domain.CustomerField{domain.FieldName, domain.FieldEmail}, est.RequiredCustomerFields)

	stored, err := store.Establishments().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.SlotsPerHour)

	cache.AssertExpectations(t)
}

func TestExecute_DefaultRequiredFields(t *testing.T) {
	_, cache, uc := setup()
	cache.On("Invalidate", mock.Anything, int64(1)).Return(nil)

	req := validRequest()
	req.RequiredCustomerFields = nil

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []domain.CustomerField{domain.FieldName}, resp.Establishment.RequiredCustomerFields)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		field  string
	}{
		{"zero capacity", func(r *Request) { r.SlotsPerHour = 0 }, "slots_per_hour"},
		{"capacity too high", func(r *Request) { r.SlotsPerHour = 101 }, "slots_per_hour"},
		{"unknown earliest policy", func(r *Request) { r.EarliestBookingTime = "+5 days" }, "earliest_booking_time"},
		{"unknown latest policy", func(r *Request) { r.LatestBookingTime = "forever" }, "latest_booking_time"},
		{"unknown weekday", func(r *Request) { r.WorkingHours["funday"] = DayScheduleInput{} }, "working_hours"},
		{"start after end", func(r *Request) {
			r.WorkingHours["friday"] = DayScheduleInput{IsOpen: true, StartTime: "18:00", EndTime: "09:00"}
		}, "working_hours.friday"},
		{"equal start and end", func(r *Request) {
			r.WorkingHours["friday"] = DayScheduleInput{IsOpen: true, StartTime: "09:00", EndTime: "09:00"}
		}, "working_hours.friday"},
		{"bad time", func(r *Request) {
			r.WorkingHours["friday"] = DayScheduleInput{IsOpen: true, StartTime: "nine", EndTime: "18:00"}
		}, "working_hours.friday"},
		{"unknown field", func(r *Request) { r.RequiredCustomerFields = []string{"cpf"} }, "required_customer_fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cache, uc := setup()
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)

			var validation *domain.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)

			stored, err := store.Establishments().GetByID(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, 1, stored.SlotsPerHour)
			cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_Access(t *testing.T) {
	_, _, uc := setup()

	req := validRequest()
	req.UserID = 7
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)

	req = validRequest()
	req.EstablishmentID = 99
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrEstablishmentNotFound)
}
