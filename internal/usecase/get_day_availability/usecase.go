package get_day_availability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/emer5om/horaly-pro-sub000/internal/availability"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/internal/service/schedule"
)

var tracer = otel.Tracer("github.com/emer5om/horaly-pro-sub000/internal/usecase/get_day_availability")

// UseCase use case для получения слотов на дату
type UseCase struct {
	schedule     ScheduleService
	stepMinutes  int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(schedule ScheduleService, stepMinutes int, logger Logger) *UseCase {
	return &UseCase{
		schedule:     schedule,
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

// Execute выполняет use case получения слотов на дату.
// Только чтение, без транзакции: результат носит справочный характер,
// окончательная проверка происходит при создании записи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "GetDayAvailability")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	uc.logger.Info("GetDayAvailability: slug=%s, service=%d, date=%s",
		req.EstablishmentSlug, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDayAvailability: validation failed: %v", err)
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

	// 3. Загружаем блокировки и записи на дату
	date := est.LocalDate(req.Date)
	calendar, err := uc.schedule.LoadCalendar(ctx, est.ID, date, date)
	if err != nil {
		return nil, mapError(err)
	}

	// 4. Рассчитываем статусы слотов
	slots, err := availability.ResolveDay(availability.DayInput{
		Establishment:          est,
		Date:                   date,
		ServiceDurationMinutes: svc.DurationMinutes,
		StepMinutes:            uc.stepMinutes,
		Now:                    uc.timeProvider.Now(),
		BlockedDates:           calendar.BlockedDates,
		BlockedTimes:           calendar.BlockedTimes,
		Appointments:           calendar.Appointments,
	})
	if err != nil {
		uc.logger.Error("GetDayAvailability: establishment id=%d: %v", est.ID, err)
		return nil, mapError(err)
	}

	uc.logger.Info("GetDayAvailability: establishment id=%d, %d slots", est.ID, len(slots))

	return &Response{
		Date:      date,
		ServiceID: svc.ID,
		Slots:     slots,
	}, nil
}

// mapError оставляет доменные ошибки как есть, остальное заворачивает в ErrInternal
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
