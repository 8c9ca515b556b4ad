package update_booking_rules

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	establishmentRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/establishment"
	"github.com/emer5om/horaly-pro-sub000/internal/service/rules"
)

var tracer = otel.Tracer("github.com/emer5om/horaly-pro-sub000/internal/usecase/update_booking_rules")

// UseCase use case для изменения правил записи заведения
type UseCase struct {
	access            AccessChecker
	establishmentRepo EstablishmentRepository
	cache             CacheInvalidator
	logger            Logger
}

// NewUseCase создает новый экземпляр use case. cache может быть nil.
func NewUseCase(access AccessChecker, establishmentRepo EstablishmentRepository, cache CacheInvalidator, logger Logger) *UseCase {
	return &UseCase{
		access:            access,
		establishmentRepo: establishmentRepo,
		cache:             cache,
		logger:            logger,
	}
}

// Execute выполняет use case изменения правил записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "UpdateBookingRules")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int64("establishment.id", req.EstablishmentID))

	uc.logger.Info("UpdateBookingRules: establishment=%d by user=%d", req.EstablishmentID, req.UserID)

	// 1. Строгая валидация правил
	bookingRules, err := buildRules(req)
	if err != nil {
		uc.logger.Warn("UpdateBookingRules: validation failed: %v", err)
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

	// 3. Сохраняем правила
	est, err := uc.establishmentRepo.UpdateBookingRules(ctx, req.EstablishmentID, bookingRules)
	if err != nil {
		if errors.Is(err, establishmentRepo.ErrEstablishmentNotFound) {
			return nil, ErrEstablishmentNotFound
		}
		uc.logger.Error("UpdateBookingRules: repository error for establishment id=%d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: update rules: %w", ErrInternal, err)
	}

	// 4. Закэшированные календари построены по старым правилам
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, est.ID); err != nil {
			uc.logger.Warn("UpdateBookingRules: cache invalidation failed for establishment id=%d: %v", est.ID, err)
		}
	}

	uc.logger.Info("UpdateBookingRules: establishment id=%d updated", est.ID)
	return &Response{Establishment: est}, nil
}
