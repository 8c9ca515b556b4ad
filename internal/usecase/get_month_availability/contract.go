package get_month_availability

import (
	"context"
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/availability"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/internal/infra/cache/monthcache"
	"github.com/emer5om/horaly-pro-sub000/internal/service/schedule"
)

// ScheduleService загрузка заведения, услуги и календаря
type ScheduleService interface {
	GetEstablishment(ctx context.Context, slug string) (*domain.Establishment, error)
	GetBookableService(ctx context.Context, est *domain.Establishment, serviceID int64) (*domain.Service, error)
	LoadCalendar(ctx context.Context, establishmentID int64, from, to time.Time) (*schedule.Calendar, error)
}

// MonthCache кэш месячного календаря, может быть nil
type MonthCache interface {
	Get(ctx context.Context, key monthcache.Key) ([]availability.DayAvailability, bool)
	Set(ctx context.Context, key monthcache.Key, days []availability.DayAvailability) error
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
