package change_appointment_status

import (
	"context"
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

// AccessChecker проверка, что пользователь администрирует заведение
type AccessChecker interface {
	Authorize(ctx context.Context, establishmentID, userID int64) (*domain.Establishment, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, establishmentID, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, establishmentID, id int64, status domain.AppointmentStatus, cancelledAt *time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier публикация событий о записях
type Notifier interface {
	AppointmentStatusChanged(ctx context.Context, appt *domain.Appointment, previous domain.AppointmentStatus)
}

// CacheInvalidator сброс закэшированного календаря заведения
type CacheInvalidator interface {
	Invalidate(ctx context.Context, establishmentID int64) error
}

// Metrics учёт переходов статусов
type Metrics interface {
	IncStatusTransition(from, to string)
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
