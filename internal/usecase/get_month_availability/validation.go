package get_month_availability

import (
	"strings"
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

const (
	minYear = 2000
	maxYear = 2100
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.EstablishmentSlug) == "" {
		return domain.NewValidationError("slug", "is required")
	}
	if req.ServiceID <= 0 {
		return domain.NewValidationError("serviceId", "must be positive")
	}
	if req.Year < minYear || req.Year > maxYear {
		return domain.NewValidationError("year", "must be in %d..%d", minYear, maxYear)
	}
	if req.Month < time.January || req.Month > time.December {
		return domain.NewValidationError("month", "must be in 1..12")
	}
	return nil
}
