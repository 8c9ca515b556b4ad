package get_month_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/emer5om/horaly-pro-sub000/internal/api/handlers"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	uc "github.com/emer5om/horaly-pro-sub000/internal/usecase/get_month_availability"
)

const (
	msgInvalidServiceID = "некорректный serviceId"
	msgInvalidYear      = "некорректный год"
	msgInvalidMonth     = "некорректный месяц, ожидается 1-12"
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

// Handle GET /api/v1/establishments/{slug}/availability/month?serviceId=&year=&month=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /availability/month - Invalid serviceId: %v", err)
		handlers.RespondErrorBody(w, http.StatusBadRequest, handlers.ErrorResponse{Error: msgInvalidServiceID, Field: "serviceId"})
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.logger.Warn("GET /availability/month - Invalid year: %v", err)
		handlers.RespondErrorBody(w, http.StatusBadRequest, handlers.ErrorResponse{Error: msgInvalidYear, Field: "year"})
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		h.logger.Warn("GET /availability/month - Invalid month: %v", err)
		handlers.RespondErrorBody(w, http.StatusBadRequest, handlers.ErrorResponse{Error: msgInvalidMonth, Field: "month"})
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &uc.Request{
		EstablishmentSlug: slug,
		ServiceID:         serviceID,
		Year:              year,
		Month:             time.Month(month),
	})
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.Is(err, uc.ErrEstablishmentNotFound):
			h.logger.Warn("GET /availability/month - Establishment not found: slug=%s", slug)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.As(err, &validationErr):
			h.logger.Warn("GET /availability/month - Validation error: slug=%s, %v", slug, err)
			handlers.RespondErrorBody(w, http.StatusBadRequest, handlers.ErrorResponse{
				Error: validationErr.Message,
				Field: validationErr.Field,
			})

		case errors.Is(err, domain.ErrConfig):
			h.logger.Error("GET /availability/month - Establishment misconfigured: slug=%s, %v", slug, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgConfigError)

		default:
			h.logger.Error("GET /availability/month - Failed to resolve month: slug=%s, error=%v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability/month - Month resolved: slug=%s, %04d-%02d, cached=%t",
		slug, year, month, resp.Cached)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
