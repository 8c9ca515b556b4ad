package get_day_availability

import (
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

// Request запрос слотов на дату
type Request struct {
	EstablishmentSlug string
	ServiceID         int64
	Date              time.Time // календарная дата, время и зона игнорируются
}

// Response все слоты дня со статусами
type Response struct {
	Date      time.Time
	ServiceID int64
	Slots     []domain.SlotAvailability
}
