package update_booking_rules

import "github.com/emer5om/horaly-pro-sub000/internal/domain"

// DayScheduleInput расписание дня в том виде, в каком его прислал администратор
type DayScheduleInput struct {
	IsOpen    bool
	StartTime string
	EndTime   string
}

// Request новые правила записи. RequiredCustomerFields == nil означает набор по умолчанию.
type Request struct {
	UserID                 int64
	EstablishmentID        int64
	WorkingHours           map[string]DayScheduleInput
	SlotsPerHour           int
	EarliestBookingTime    string
	LatestBookingTime      string
	RequiredCustomerFields []string
}

// Response заведение с сохранёнными правилами
type Response struct {
	Establishment *domain.Establishment
}
