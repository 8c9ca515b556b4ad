package get_day_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/emer5om/horaly-pro-sub000/internal/api/handlers"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	uc "github.com/emer5om/horaly-pro-sub000/internal/usecase/get_day_availability"
)

const (
	msgInvalidServiceID = "некорректный serviceId"
	msgInvalidDate      = "некорректная дата, ожидается YYYY-MM-DD"
	msgNotFound         = "заведение не найдено"
	msgConfigError      = "расписание заведения настроено некорректно"
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

// Handle GET /api/v1/establishments/{slug}/availability/day?serviceId=&date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /availability/day - Invalid serviceId: %v", err)
		handlers.RespondErrorBody(w, http.StatusBadRequest, handlers.ErrorResponse{Error: msgInvalidServiceID, Field: "serviceId"})
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /availability/day - Invalid date: %v", err)
		handlers.RespondErrorBody(w, http.StatusBadRequest, handlers.ErrorResponse{Error: msgInvalidDate, Field: "date"})
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &uc.Request{
		EstablishmentSlug: slug,
		ServiceID:         serviceID,
		Date:              date,
	})
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.Is(err, uc.ErrEstablishmentNotFound):
			h.logger.Warn("GET /availability/day - Establishment not found: slug=%s", slug)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.As(err, &validationErr):
			h.logger.Warn("GET /availability/day - Validation error: slug=%s, %v", slug, err)
			handlers.RespondErrorBody(w, http.StatusBadRequest, handlers.ErrorResponse{
				Error: validationErr.Message,
				Field: validationErr.Field,
			})

		case errors.Is(err, domain.ErrConfig):
			h.logger.Error("GET /availability/day - Establishment misconfigured: slug=%s, %v", slug, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgConfigError)

		default:
			h.logger.Error("GET /availability/day - Failed to resolve slots: slug=%s, error=%v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability/day - Slots resolved: slug=%s, date=%s, count=%d",
		slug, date.Format(domain.DateFormat), len(resp.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
