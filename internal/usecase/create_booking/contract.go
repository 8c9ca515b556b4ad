package create_booking

import (
	"context"
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/internal/service/schedule"
)

// ScheduleService загрузка заведения, услуги и календаря
type ScheduleService interface {
	GetEstablishment(ctx context.Context, slug string) (*domain.Establishment, error)
	GetBookableService(ctx context.Context, est *domain.Establishment, serviceID int64) (*domain.Service, error)
	LoadCalendar(ctx context.Context, establishmentID int64, from, to time.Time) (*schedule.Calendar, error)
}

// EstablishmentRepository интерфейс репозитория заведений
type EstablishmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Establishment, error)
	LockForBooking(ctx context.Context, id int64) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	CountActiveCreatedBetween(ctx context.Context, establishmentID int64, from, to time.Time) (int, error)
}

// PlanRepository интерфейс репозитория тарифов
type PlanRepository interface {
	GetMonthlyLimit(ctx context.Context, establishmentID int64) (*int, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	UpsertByPhone(ctx context.Context, in *domain.CustomerInput) (*domain.Customer, error)
	AttachToEstablishment(ctx context.Context, customerID, establishmentID int64) error
}

// CouponRepository интерфейс репозитория купонов
type CouponRepository interface {
	GetByCode(ctx context.Context, establishmentID int64, code string) (*domain.Coupon, error)
	IncrementUsage(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями.
// Запись идёт в READ COMMITTED: порядок задаёт блокировка строки заведения.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier публикация событий о записях
type Notifier interface {
	AppointmentCreated(ctx context.Context, appt *domain.Appointment)
}

// CacheInvalidator сброс закэшированного календаря заведения
type CacheInvalidator interface {
	Invalidate(ctx context.Context, establishmentID int64) error
}

// Metrics учёт исходов записи
type Metrics interface {
	IncBookingOutcome(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
