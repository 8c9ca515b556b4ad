package models

import (
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

// DayScheduleResponse расписание одного дня недели
type DayScheduleResponse struct {
	IsOpen    bool   `json:"is_open"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// BookingRulesResponse правила записи заведения
type BookingRulesResponse struct {
	EstablishmentID        int64                          `json:"establishmentId"`
	Timezone               string                         `json:"timezone"`
	WorkingHours           map[string]DayScheduleResponse `json:"working_hours"`
	SlotsPerHour           int                            `json:"slots_per_hour"`
	EarliestBookingTime    string                         `json:"earliest_booking_time"`
	LatestBookingTime      string                         `json:"latest_booking_time"`
	RequiredCustomerFields []string                       `json:"required_customer_fields"`
	UpdatedAt              time.Time                      `json:"updatedAt"`
}

// FromDomainEstablishment конвертирует заведение в DTO.
// В ответе всегда семь дней недели, отсутствующий день закрыт.
func FromDomainEstablishment(e *domain.Establishment) *BookingRulesResponse {
	if e == nil {
		return nil
	}

	hours := make(map[string]DayScheduleResponse, len(domain.Weekdays))
	for _, day := range domain.Weekdays {
		schedule := e.WorkingHours[day]
		hours[string(day)] = DayScheduleResponse{
			IsOpen:    schedule.IsOpen,
			StartTime: schedule.StartTime,
			EndTime:   schedule.EndTime,
		}
	}

	required := e.RequiredCustomerFields
	if required == nil {
		required = domain.DefaultRequiredCustomerFields
	}
	fields := make([]string, 0, len(required))
	for _, f := range required {
		fields = append(fields, string(f))
	}

	return &BookingRulesResponse{
		EstablishmentID:        e.ID,
		Timezone:               e.Timezone,
		WorkingHours:           hours,
		SlotsPerHour:           e.Capacity(),
		EarliestBookingTime:    string(e.EarliestBookingTime),
		LatestBookingTime:      string(e.LatestBookingTime),
		RequiredCustomerFields: fields,
		UpdatedAt:              e.UpdatedAt,
	}
}
