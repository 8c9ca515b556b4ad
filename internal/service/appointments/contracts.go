package appointments

import (
	"context"
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, establishmentID, id int64) (*domain.Appointment, error)
	ListByDateRange(ctx context.Context, establishmentID int64, from, to time.Time, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
}

// AccessChecker проверка, что пользователь администрирует заведение
type AccessChecker interface {
	Authorize(ctx context.Context, establishmentID, userID int64) (*domain.Establishment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
