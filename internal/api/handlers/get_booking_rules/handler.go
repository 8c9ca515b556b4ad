package get_booking_rules

import (
	"errors"
	"net/http"

	"github.com/emer5om/horaly-pro-sub000/internal/api/handlers"
	"github.com/emer5om/horaly-pro-sub000/internal/api/middleware"
	"github.com/emer5om/horaly-pro-sub000/internal/service/rules"
)

const (
	msgInvalidEstablishmentID = "некорректный ID заведения"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgNotFound               = "заведение не найдено"
	msgForbidden              = "доступ запрещен"
)

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/establishments/{establishmentId}/booking-rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	establishmentID, err := handlers.PathInt64(r, "establishmentId")
	if err != nil {
		h.logger.Warn("GET /establishments/{id}/booking-rules - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /establishments/{id}/booking-rules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetBookingRules(r.Context(), establishmentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrEstablishmentNotFound):
			h.logger.Warn("GET /establishments/{id}/booking-rules - Not found: establishment_id=%d", establishmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("GET /establishments/{id}/booking-rules - Access denied: establishment_id=%d, user_id=%d",
				establishmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /establishments/{id}/booking-rules - Failed to get rules: establishment_id=%d, error=%v",
				establishmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /establishments/{id}/booking-rules - Rules retrieved: establishment_id=%d", establishmentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
