package update_booking_rules

import (
	"context"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

// AccessChecker проверка, что пользователь администрирует заведение
type AccessChecker interface {
	Authorize(ctx context.Context, establishmentID, userID int64) (*domain.Establishment, error)
}

// EstablishmentRepository интерфейс репозитория заведений
type EstablishmentRepository interface {
	UpdateBookingRules(ctx context.Context, id int64, rules domain.BookingRules) (*domain.Establishment, error)
}

// CacheInvalidator сброс закэшированного календаря заведения
type CacheInvalidator interface {
	Invalidate(ctx context.Context, establishmentID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
