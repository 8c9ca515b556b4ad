package list_appointments

import (
	"net/http"

	"github.com/emer5om/horaly-pro-sub000/internal/api/handlers"
	"github.com/emer5om/horaly-pro-sub000/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из URL и query параметров.
// from и to обязательны, status опционален.
func ToServiceRequest(r *http.Request, establishmentID, userID int64) (*models.GetAgendaRequest, error) {
	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		return nil, err
	}

	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		return nil, err
	}

	req := &models.GetAgendaRequest{
		EstablishmentID: establishmentID,
		UserID:          userID,
		From:            from,
		To:              to,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	return req, nil
}
