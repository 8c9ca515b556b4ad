package list_appointments

import (
	"context"

	"github.com/emer5om/horaly-pro-sub000/internal/service/appointments/models"
)

type AppointmentService interface {
	GetAgenda(ctx context.Context, req *models.GetAgendaRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
