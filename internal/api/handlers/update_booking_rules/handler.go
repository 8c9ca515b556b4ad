package update_booking_rules

import (
	"errors"
	"net/http"

	"github.com/emer5om/horaly-pro-sub000/internal/api/handlers"
	"github.com/emer5om/horaly-pro-sub000/internal/api/middleware"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/internal/service/rules/models"
	uc "github.com/emer5om/horaly-pro-sub000/internal/usecase/update_booking_rules"
)

const (
	msgInvalidEstablishmentID = "некорректный ID заведения"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgNotFound               = "заведение не найдено"
	msgForbidden              = "доступ запрещен"
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

// Handle PUT /api/v1/establishments/{establishmentId}/booking-rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	establishmentID, err := handlers.PathInt64(r, "establishmentId")
	if err != nil {
		h.logger.Warn("PUT /establishments/{id}/booking-rules - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /establishments/{id}/booking-rules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateBookingRulesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /establishments/{id}/booking-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID, establishmentID))
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("PUT /establishments/{id}/booking-rules - Validation error: establishment_id=%d, %v",
				establishmentID, err)
			handlers.RespondErrorBody(w, http.StatusBadRequest, handlers.ErrorResponse{
				Error: validationErr.Message,
				Field: validationErr.Field,
			})

		case errors.Is(err, uc.ErrEstablishmentNotFound):
			h.logger.Warn("PUT /establishments/{id}/booking-rules - Not found: establishment_id=%d", establishmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, uc.ErrAccessDenied):
			h.logger.Warn("PUT /establishments/{id}/booking-rules - Access denied: establishment_id=%d, user_id=%d",
				establishmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /establishments/{id}/booking-rules - Failed to update rules: establishment_id=%d, error=%v",
				establishmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /establishments/{id}/booking-rules - Rules updated: establishment_id=%d, user_id=%d",
		establishmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainEstablishment(resp.Establishment))
}
