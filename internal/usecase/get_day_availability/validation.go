package get_day_availability

import (
	"strings"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

// validateRequest валидирует входные данные запроса
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
	return nil
}
