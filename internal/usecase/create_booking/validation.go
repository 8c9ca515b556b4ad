package create_booking

import (
	"strings"
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/availability"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/pkg/types"
)

// validateRequest проверяет формат запроса до обращения к БД
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.EstablishmentSlug) == "" {
		return domain.NewValidationError("slug", "is required")
	}
	if req.ServiceID <= 0 {
		return domain.NewValidationError("serviceId", "must be positive")
	}
	if req.Date.IsZero() {
		return domain.NewValidationError("date", "is required")
	}
	if req.StartTime.IsZero() {
		return domain.NewValidationError("time", "is required")
	}
	if err := req.StartTime.Validate(); err != nil {
		return domain.NewValidationError("time", "must be HH:MM")
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return domain.NewValidationError("notes", "is too long")
	}
	return nil
}

// validateSlot проверяет, что день рабочий и время лежит на сетке слотов.
// Время вне сетки это ошибка ввода, а не конфликт.
func validateSlot(est *domain.Establishment, date time.Time, start types.TimeString, durationMinutes, stepMinutes int) error {
	window, err := availability.DayWindow(est, date)
	if err != nil {
		return err
	}
	if !window.Open {
		return domain.NewValidationError("date", "establishment is closed on %s", date.Format(domain.DateFormat))
	}
	if !availability.IsOnGrid(window, durationMinutes, stepMinutes, start) {
		return domain.NewValidationError("time", "%s is not a bookable start time", start)
	}
	return nil
}

// conflictFromSlot переводит статус слота в причину конфликта
func conflictFromSlot(status domain.SlotStatus) error {
	switch status {
	case domain.SlotAvailable:
		return nil
	case domain.SlotPast:
		return &domain.ConflictError{Reason: domain.ConflictPast}
	case domain.SlotBlocked:
		return &domain.ConflictError{Reason: domain.ConflictBlocked}
	default:
		return &domain.ConflictError{Reason: domain.ConflictOccupied}
	}
}
