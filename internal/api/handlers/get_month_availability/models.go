package get_month_availability

import (
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	uc "github.com/emer5om/horaly-pro-sub000/internal/usecase/get_month_availability"
)

// MonthAvailabilityResponse HTTP response model, days: "YYYY-MM-DD" -> статус
type MonthAvailabilityResponse struct {
	Year      int               `json:"year"`
	Month     int               `json:"month"`
	ServiceID int64             `json:"serviceId"`
	Days      map[string]string `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *uc.Response) *MonthAvailabilityResponse {
	days := make(map[string]string, len(resp.Days))
	for _, d := range resp.Days {
		days[d.Date.Format(domain.DateFormat)] = string(d.Status)
	}

	return &MonthAvailabilityResponse{
		Year:      resp.Year,
		Month:     int(resp.Month),
		ServiceID: resp.ServiceID,
		Days:      days,
	}
}
