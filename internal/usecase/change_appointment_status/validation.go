package change_appointment_status

import "github.com/emer5om/horaly-pro-sub000/internal/domain"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (domain.AppointmentEvent, error) {
	if req.EstablishmentID <= 0 {
		return "", domain.NewValidationError("establishmentId", "must be positive")
	}
	if req.AppointmentID <= 0 {
		return "", domain.NewValidationError("appointmentId", "must be positive")
	}
	return domain.ParseAppointmentEvent(req.Event)
}
