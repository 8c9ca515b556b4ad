package change_appointment_status

import (
	"time"

	uc "github.com/emer5om/horaly-pro-sub000/internal/usecase/change_appointment_status"
)

// ChangeStatusRequest HTTP request model
type ChangeStatusRequest struct {
	Event string `json:"event"` // confirm, confirm_payment, start, complete, cancel
}

// ChangeStatusResponse HTTP response model
type ChangeStatusResponse struct {
	ID             int64      `json:"id"`
	PreviousStatus string     `json:"previousStatus"`
	Status         string     `json:"status"`
	CancelledAt    *time.Time `json:"cancelledAt,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ChangeStatusRequest) ToUseCaseRequest(userID, establishmentID, appointmentID int64) *uc.Request {
	return &uc.Request{
		UserID:          userID,
		EstablishmentID: establishmentID,
		AppointmentID:   appointmentID,
		Event:           r.Event,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *uc.Response) *ChangeStatusResponse {
	return &ChangeStatusResponse{
		ID:             resp.ID,
		PreviousStatus: string(resp.PreviousStatus),
		Status:         string(resp.Status),
		CancelledAt:    resp.CancelledAt,
	}
}
