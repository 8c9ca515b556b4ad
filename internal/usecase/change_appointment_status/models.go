package change_appointment_status

import (
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

// Request запрос на смену статуса записи
type Request struct {
	UserID          int64
	EstablishmentID int64
	AppointmentID   int64
	Event           string
}

// Response запись после перехода
type Response struct {
	ID             int64
	PreviousStatus domain.AppointmentStatus
	Status         domain.AppointmentStatus
	CancelledAt    *time.Time
}
