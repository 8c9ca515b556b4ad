package create_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/emer5om/horaly-pro-sub000/internal/api/handlers"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	createBooking "github.com/emer5om/horaly-pro-sub000/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgNotFound           = "заведение не найдено"
	msgQuotaExceeded      = "заведение исчерпало месячный лимит записей"
	msgConfigError        = "расписание заведения настроено некорректно"
	msgConcurrentUpdate   = "запись не удалась из-за параллельных запросов, повторите попытку"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/establishments/{slug}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(slug)
	if err != nil {
		h.respondError(w, slug, err)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, slug, err)
		return
	}

	h.logger.Info("POST /bookings - Appointment created: id=%d, slug=%s, date=%s, time=%s, status=%s",
		resp.ID, slug, req.Date, req.Time, resp.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}

func (h *Handler) respondError(w http.ResponseWriter, slug string, err error) {
	var (
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
		quotaErr      *domain.QuotaError
	)

	switch {
	case errors.Is(err, createBooking.ErrEstablishmentNotFound):
		h.logger.Warn("POST /bookings - Establishment not found: slug=%s", slug)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.As(err, &validationErr):
		h.logger.Warn("POST /bookings - Validation error: slug=%s, %v", slug, err)
		handlers.RespondErrorBody(w, http.StatusBadRequest, handlers.ErrorResponse{
			Error: validationErr.Message,
			Field: validationErr.Field,
		})

	case errors.As(err, &conflictErr):
		h.logger.Warn("POST /bookings - Slot not available: slug=%s, reason=%s", slug, conflictErr.Reason)
		handlers.RespondErrorBody(w, http.StatusConflict, handlers.ErrorResponse{
			Error:  msgSlotNotAvailable,
			Reason: string(conflictErr.Reason),
		})

	case errors.As(err, &quotaErr):
		h.logger.Warn("POST /bookings - Quota exceeded: slug=%s, used=%d, limit=%d", slug, quotaErr.Used, quotaErr.Limit)
		handlers.RespondError(w, http.StatusUnprocessableEntity, msgQuotaExceeded)

	case errors.Is(err, createBooking.ErrConcurrentUpdate):
		h.logger.Warn("POST /bookings - Concurrent update: slug=%s, %v", slug, err)
		handlers.RespondConflict(w, msgConcurrentUpdate)

	case errors.Is(err, domain.ErrConfig):
		h.logger.Error("POST /bookings - Establishment misconfigured: slug=%s, %v", slug, err)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgConfigError)

	default:
		h.logger.Error("POST /bookings - Failed to create appointment: slug=%s, error=%v", slug, err)
		handlers.RespondInternalError(w)
	}
}
