package schedule

import (
	"context"
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

// EstablishmentRepository интерфейс репозитория заведений
type EstablishmentRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Establishment, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetService(ctx context.Context, establishmentID, serviceID int64) (*domain.Service, error)
}

// BlockingRepository интерфейс репозитория блокировок
type BlockingRepository interface {
	ListBlockedDates(ctx context.Context, establishmentID int64, from, to time.Time) ([]*domain.BlockedDate, error)
	ListBlockedTimes(ctx context.Context, establishmentID int64, from, to time.Time) ([]*domain.BlockedTime, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListActiveByDateRange(ctx context.Context, establishmentID int64, from, to time.Time) ([]*domain.Appointment, error)
}

// TransactionManager единый снимок для чтения календаря
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
