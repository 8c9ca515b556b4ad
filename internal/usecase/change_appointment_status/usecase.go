package change_appointment_status

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	appointmentRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/appointment"
	"github.com/emer5om/horaly-pro-sub000/internal/service/rules"
	"github.com/emer5om/horaly-pro-sub000/pkg/txmanager"
)

var tracer = otel.Tracer("github.com/emer5om/horaly-pro-sub000/internal/usecase/change_appointment_status")

// UseCase use case для смены статуса записи
type UseCase struct {
	access          AccessChecker
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	notifier        Notifier
	cache           CacheInvalidator
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case. notifier, cache и metrics могут быть nil.
func NewUseCase(
	access AccessChecker,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	notifier Notifier,
	cache CacheInvalidator,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		access:          access,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		notifier:        notifier,
		cache:           cache,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case смены статуса записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "ChangeAppointmentStatus")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.Int64("establishment.id", req.EstablishmentID),
		attribute.Int64("appointment.id", req.AppointmentID),
		attribute.String("appointment.event", req.Event),
	)

	uc.logger.Info("ChangeAppointmentStatus: establishment=%d, appointment=%d, event=%s",
		req.EstablishmentID, req.AppointmentID, req.Event)

	// 1. Валидация входных данных
	event, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ChangeAppointmentStatus: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права владельца
	if _, err := uc.access.Authorize(ctx, req.EstablishmentID, req.UserID); err != nil {
		switch {
		case errors.Is(err, rules.ErrEstablishmentNotFound):
			return nil, ErrEstablishmentNotFound
		case errors.Is(err, rules.ErrAccessDenied):
			return nil, ErrAccessDenied
		default:
			return nil, fmt.Errorf("%w: authorize: %w", ErrInternal, err)
		}
	}

	var (
		updated  domain.Appointment
		previous domain.AppointmentStatus
	)

	// 3. Читаем запись с блокировкой и применяем переход
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.EstablishmentID, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: get appointment: %w", ErrInternal, err)
		}

		next, err := domain.NextAppointmentStatus(appt.Status, event)
		if err != nil {
			return err
		}

		appt.CancelledAt = nil
		if next == domain.StatusCancelled {
			now := uc.timeProvider.Now()
			appt.CancelledAt = &now
		}

		if err := uc.appointmentRepo.UpdateStatus(txCtx, req.EstablishmentID, appt.ID, next, appt.CancelledAt); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: update status: %w", ErrInternal, err)
		}

		previous = appt.Status
		appt.Status = next
		updated = *appt
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			uc.logger.Warn("ChangeAppointmentStatus: appointment id=%d not found in establishment id=%d", req.AppointmentID, req.EstablishmentID)
		case errors.Is(err, domain.ErrInvalidTransition):
			uc.logger.Warn("ChangeAppointmentStatus: %v", err)
		case txmanager.IsSerializationFailure(err):
			uc.logger.Warn("ChangeAppointmentStatus: concurrent update of appointment id=%d: %v", req.AppointmentID, err)
			err = fmt.Errorf("%w: %w", ErrConcurrentUpdate, err)
		default:
			uc.logger.Error("ChangeAppointmentStatus: %v", err)
			if !errors.Is(err, ErrInternal) {
				err = fmt.Errorf("%w: %w", ErrInternal, err)
			}
		}
		return nil, err
	}

	uc.logger.Info("ChangeAppointmentStatus: appointment id=%d %s -> %s", updated.ID, previous, updated.Status)

	// 4. Хуки после коммита
	uc.afterTransition(ctx, &updated, previous)

	return &Response{
		ID:             updated.ID,
		PreviousStatus: previous,
		Status:         updated.Status,
		CancelledAt:    updated.CancelledAt,
	}, nil
}

// afterTransition событие публикуется на каждый переход, отмена освобождает место в календаре
func (uc *UseCase) afterTransition(ctx context.Context, appt *domain.Appointment, previous domain.AppointmentStatus) {
	if uc.metrics != nil {
		uc.metrics.IncStatusTransition(string(previous), string(appt.Status))
	}

	if uc.notifier != nil {
		uc.notifier.AppointmentStatusChanged(ctx, appt, previous)
	}

	if appt.Status == domain.StatusCancelled && uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, appt.EstablishmentID); err != nil {
			uc.logger.Warn("ChangeAppointmentStatus: cache invalidation failed for establishment id=%d: %v", appt.EstablishmentID, err)
		}
	}
}
