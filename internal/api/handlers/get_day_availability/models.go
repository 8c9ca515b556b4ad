package get_day_availability

import (
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	uc "github.com/emer5om/horaly-pro-sub000/internal/usecase/get_day_availability"
)

// SlotResponse слот дня
type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Status    string `json:"status"`
}

// DayAvailabilityResponse HTTP response model
type DayAvailabilityResponse struct {
	Date      string         `json:"date"`
	ServiceID int64          `json:"serviceId"`
	Slots     []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *uc.Response) *DayAvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			Time:      s.Time.String(),
			Available: s.IsAvailable(),
			Status:    string(s.Status),
		})
	}

	return &DayAvailabilityResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		ServiceID: resp.ServiceID,
		Slots:     slots,
	}
}
