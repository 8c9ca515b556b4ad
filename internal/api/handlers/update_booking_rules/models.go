package update_booking_rules

import (
	uc "github.com/emer5om/horaly-pro-sub000/internal/usecase/update_booking_rules"
)

// DayScheduleRequest расписание одного дня недели
type DayScheduleRequest struct {
	IsOpen    bool   `json:"is_open"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// UpdateBookingRulesRequest HTTP request model
type UpdateBookingRulesRequest struct {
	WorkingHours           map[string]DayScheduleRequest `json:"working_hours"`
	SlotsPerHour           int                           `json:"slots_per_hour"`
	EarliestBookingTime    string                        `json:"earliest_booking_time"`
	LatestBookingTime      string                        `json:"latest_booking_time"`
	RequiredCustomerFields []string                      `json:"required_customer_fields"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRulesRequest) ToUseCaseRequest(userID, establishmentID int64) *uc.Request {
	hours := make(map[string]uc.DayScheduleInput, len(r.WorkingHours))
	for day, s := range r.WorkingHours {
		hours[day] = uc.DayScheduleInput{
			IsOpen:    s.IsOpen,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		}
	}

	return &uc.Request{
		UserID:                 userID,
		EstablishmentID:        establishmentID,
		WorkingHours:           hours,
		SlotsPerHour:           r.SlotsPerHour,
		EarliestBookingTime:    r.EarliestBookingTime,
		LatestBookingTime:      r.LatestBookingTime,
		RequiredCustomerFields: r.RequiredCustomerFields,
	}
}
