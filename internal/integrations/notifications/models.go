package notifications

import "time"

// Типы событий, они же значения заголовка event_type
const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

// AppointmentEvent тело сообщения о записи
type AppointmentEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	OccurredAt      time.Time `json:"occurred_at"`
	AppointmentID   int64     `json:"appointment_id"`
	EstablishmentID int64     `json:"establishment_id"`
	CustomerID      int64     `json:"customer_id"`
	ServiceID       int64     `json:"service_id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	PreviousStatus  string    `json:"previous_status,omitempty"`
	TotalPrice      float64   `json:"total_price"`
}

// Topics имена топиков для каждого типа события
type Topics struct {
	Created       string
	StatusChanged string
}
