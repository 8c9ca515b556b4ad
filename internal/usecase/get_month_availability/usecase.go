package get_month_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/emer5om/horaly-pro-sub000/internal/availability"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/internal/infra/cache/monthcache"
	"github.com/emer5om/horaly-pro-sub000/internal/service/schedule"
)

var tracer = otel.Tracer("github.com/emer5om/horaly-pro-sub000/internal/usecase/get_month_availability")

// UseCase use case для получения календаря доступности на месяц
type UseCase struct {
	schedule     ScheduleService
	cache        MonthCache
	stepMinutes  int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. cache может быть nil.
func NewUseCase(schedule ScheduleService, cache MonthCache, stepMinutes int, logger Logger) *UseCase {
	return &UseCase{
		schedule:     schedule,
		cache:        cache,
		stepMinutes:  stepMinutes,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения календаря на месяц
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "GetMonthAvailability")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	uc.logger.Info("GetMonthAvailability: slug=%s, service=%d, month=%04d-%02d",
		req.EstablishmentSlug, req.ServiceID, req.Year, int(req.Month))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetMonthAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем заведение и услугу
	est, err := uc.schedule.GetEstablishment(ctx, req.EstablishmentSlug)
	if err != nil {
		return nil, mapError(err)
	}
	span.SetAttributes(attribute.Int64("establishment.id", est.ID))

	svc, err := uc.schedule.GetBookableService(ctx, est, req.ServiceID)
	if err != nil {
		return nil, mapError(err)
	}

	now := uc.timeProvider.Now()
	today := est.Today(now)
	key := monthcache.Key{
		EstablishmentID: est.ID,
		ServiceID:       svc.ID,
		Year:            req.Year,
		Month:           req.Month,
		Today:           today,
	}

	// Текущий месяц не кэшируется: статус сегодняшнего дня меняется с каждым прошедшим слотом
	useCache := uc.cache != nil && !(today.Year() == req.Year && today.Month() == req.Month)

	// 3. Пробуем кэш
	if useCache {
		if days, ok := uc.cache.Get(ctx, key); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &Response{Year: req.Year, Month: req.Month, ServiceID: svc.ID, Days: days, Cached: true}, nil
		}
	}

	// 4. Загружаем блокировки и записи на весь месяц
	first := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, est.Location())
	last := first.AddDate(0, 1, -1)

	calendar, err := uc.schedule.LoadCalendar(ctx, est.ID, first, last)
	if err != nil {
		return nil, mapError(err)
	}

	// 5. Рассчитываем статус каждого дня
	days, err := availability.ResolveMonth(availability.MonthInput{
		Establishment:          est,
		Year:                   req.Year,
		Month:                  req.Month,
		ServiceDurationMinutes: svc.DurationMinutes,
		StepMinutes:            uc.stepMinutes,
		Now:                    now,
		BlockedDates:           calendar.BlockedDates,
		BlockedTimes:           calendar.BlockedTimes,
		Appointments:           calendar.Appointments,
	})
	if err != nil {
		uc.logger.Error("GetMonthAvailability: establishment id=%d: %v", est.ID, err)
		return nil, mapError(err)
	}

	// 6. Сохраняем в кэш, ошибка кэша не ломает ответ
	if useCache {
		if err := uc.cache.Set(ctx, key, days); err != nil {
			uc.logger.Warn("GetMonthAvailability: cache set failed: %v", err)
		}
	}

	return &Response{Year: req.Year, Month: req.Month, ServiceID: svc.ID, Days: days}, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, schedule.ErrEstablishmentNotFound):
		return ErrEstablishmentNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConfig):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
