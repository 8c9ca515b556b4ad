package get_month_availability

import (
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/availability"
)

// Request запрос календаря на месяц
type Request struct {
	EstablishmentSlug string
	ServiceID         int64
	Year              int
	Month             time.Month
}

// Response статус каждого дня месяца в календарном порядке
type Response struct {
	Year      int
	Month     time.Month
	ServiceID int64
	Days      []availability.DayAvailability
	Cached    bool
}
