package change_appointment_status

import (
	"errors"
	"net/http"

	"github.com/emer5om/horaly-pro-sub000/internal/api/handlers"
	"github.com/emer5om/horaly-pro-sub000/internal/api/middleware"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	uc "github.com/emer5om/horaly-pro-sub000/internal/usecase/change_appointment_status"
)

const (
	msgInvalidEstablishmentID = "некорректный ID заведения"
	msgInvalidAppointmentID   = "некорректный ID записи"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgEstablishmentNotFound  = "заведение не найдено"
	msgAppointmentNotFound    = "запись не найдена"
	msgForbidden              = "доступ запрещен"
	msgInvalidTransition      = "переход статуса недопустим"
	msgConcurrentUpdate       = "запись одновременно изменена другим запросом, повторите попытку"
)

type Handler struct {
	useCase UseCase
	logger  Logger
}

func NewHandler(useCase UseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/establishments/{establishmentId}/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	establishmentID, err := handlers.PathInt64(r, "establishmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID, establishmentID, appointmentID))
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("PATCH /appointments/{id}/status - Validation error: %v", err)
			handlers.RespondErrorBody(w, http.StatusBadRequest, handlers.ErrorResponse{
				Error: validationErr.Message,
				Field: validationErr.Field,
			})

		case errors.Is(err, uc.ErrEstablishmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/status - Establishment not found: establishment_id=%d", establishmentID)
			handlers.RespondNotFound(w, msgEstablishmentNotFound)

		case errors.Is(err, uc.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/status - Access denied: establishment_id=%d, user_id=%d",
				establishmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, uc.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/status - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("PATCH /appointments/{id}/status - Invalid transition: appointment_id=%d, event=%s",
				appointmentID, req.Event)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, uc.ErrConcurrentUpdate):
			h.logger.Warn("PATCH /appointments/{id}/status - Concurrent update: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("PATCH /appointments/{id}/status - Failed to change status: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/status - Status changed: appointment_id=%d, %s -> %s, user_id=%d",
		appointmentID, resp.PreviousStatus, resp.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
