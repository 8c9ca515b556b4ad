package create_booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/emer5om/horaly-pro-sub000/internal/availability"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	couponRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/coupon"
	"github.com/emer5om/horaly-pro-sub000/internal/service/schedule"
	"github.com/emer5om/horaly-pro-sub000/pkg/metrics"
	"github.com/emer5om/horaly-pro-sub000/pkg/txmanager"
)

var tracer = otel.Tracer("github.com/emer5om/horaly-pro-sub000/internal/usecase/create_booking")

// maxTxAttempts число попыток транзакции, прерванной базой
const maxTxAttempts = 3

// Dependencies зависимости use case. Notifier, Cache и Metrics опциональны.
type Dependencies struct {
	Schedule       ScheduleService
	Establishments EstablishmentRepository
	Appointments   AppointmentRepository
	Plans          PlanRepository
	Customers      CustomerRepository
	Coupons        CouponRepository
	TxManager      TransactionManager
	Notifier       Notifier
	Cache          CacheInvalidator
	Metrics        Metrics
	Logger         Logger
}

// UseCase use case для создания записи
type UseCase struct {
	deps         Dependencies
	stepMinutes  int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(deps Dependencies, stepMinutes int) *UseCase {
	return &UseCase{
		deps:         deps,
		stepMinutes:  stepMinutes,
		timeProvider: &RealTimeProvider{},
		logger:       deps.Logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания записи.
// Все проверки слота и квоты выполняются в транзакции READ COMMITTED под блокировкой
// строки заведения: каждый запрос после блокировки видит уже зафиксированные записи,
// поэтому из N параллельных запросов на слот вместимостью C проходят ровно min(N, C).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "CreateBooking")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		uc.countOutcome(err)
		span.End()
	}()

	uc.logger.Info("CreateBooking: slug=%s, service=%d, date=%s, time=%s",
		req.EstablishmentSlug, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем заведение и услугу
	est, err := uc.deps.Schedule.GetEstablishment(ctx, req.EstablishmentSlug)
	if err != nil {
		return nil, mapError(err)
	}
	span.SetAttributes(attribute.Int64("establishment.id", est.ID))

	svc, err := uc.deps.Schedule.GetBookableService(ctx, est, req.ServiceID)
	if err != nil {
		return nil, mapError(err)
	}

	// 3. Выполняем проверки и запись в транзакции под блокировкой заведения
	created, err := uc.bookInTx(ctx, est.ID, svc, req)
	if err != nil {
		return nil, mapError(err)
	}

	uc.logger.Info("CreateBooking: successfully created appointment id=%d, status=%s", created.ID, created.Status)

	// 4. Побочные эффекты после коммита не влияют на результат
	if uc.deps.Notifier != nil {
		uc.deps.Notifier.AppointmentCreated(ctx, created)
	}
	if uc.deps.Cache != nil {
		if err := uc.deps.Cache.Invalidate(ctx, est.ID); err != nil {
			uc.logger.Warn("CreateBooking: cache invalidation failed for establishment id=%d: %v", est.ID, err)
		}
	}

	return toResponse(created), nil
}

// bookInTx повторяет транзакцию, если её прервала база (40001/40P01).
// Это не конфликт слота: при повторе все проверки выполняются заново.
func (uc *UseCase) bookInTx(ctx context.Context, establishmentID int64, svc *domain.Service, req *Request) (*domain.Appointment, error) {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		var created *domain.Appointment
		err := uc.deps.TxManager.Do(ctx, func(txCtx context.Context) error {
			appt, err := uc.book(txCtx, establishmentID, svc, req)
			if err != nil {
				return err
			}
			created = appt
			return nil
		})
		if err == nil {
			return created, nil
		}
		if !txmanager.IsSerializationFailure(err) {
			return nil, err
		}

		uc.logger.Warn("CreateBooking: transaction aborted for establishment id=%d, attempt %d/%d: %v",
			establishmentID, attempt, maxTxAttempts, err)
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", ErrConcurrentUpdate, lastErr)
}

// book шаги внутри транзакции
func (uc *UseCase) book(ctx context.Context, establishmentID int64, svc *domain.Service, req *Request) (*domain.Appointment, error) {
	// 3.1. Блокируем заведение: записи одного заведения идут строго по очереди
	if err := uc.deps.Establishments.LockForBooking(ctx, establishmentID); err != nil {
		return nil, fmt.Errorf("%w: lock establishment: %w", ErrInternal, err)
	}

	// 3.2. Перечитываем правила под блокировкой
	est, err := uc.deps.Establishments.GetByID(ctx, establishmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: get establishment: %w", ErrInternal, err)
	}

	// 3.3. Проверяем клиента по полям, которые требует заведение
	if err := domain.ValidateCustomerInput(&req.Customer, est.RequiredCustomerFields); err != nil {
		uc.logger.Warn("CreateBooking: customer validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	date := est.LocalDate(req.Date)

	// 3.4. Месячная квота тарифа проверяется до слота: исчерпанный лимит
	// возвращает QuotaError независимо от того, свободен ли слот
	if err := uc.checkQuota(ctx, est, now); err != nil {
		return nil, err
	}

	// 3.5. Горизонт записи
	switch availability.LocateInHorizon(est, date, now) {
	case availability.HorizonTooEarly:
		uc.logger.Warn("CreateBooking: date %s is before the booking horizon", date.Format(domain.DateFormat))
		return nil, &domain.ConflictError{Reason: domain.ConflictPast}
	case availability.HorizonTooLate:
		uc.logger.Warn("CreateBooking: date %s is after the booking horizon", date.Format(domain.DateFormat))
		return nil, &domain.ConflictError{Reason: domain.ConflictBlocked}
	}

	// 3.6. Рабочий день и сетка слотов
	if err := validateSlot(est, date, req.StartTime, svc.DurationMinutes, uc.stepMinutes); err != nil {
		uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
		return nil, err
	}

	// 3.7. Повторно рассчитываем статус слота по данным, прочитанным с блокировкой
	calendar, err := uc.deps.Schedule.LoadCalendar(ctx, est.ID, date, date)
	if err != nil {
		return nil, err
	}

	status, err := availability.ResolveSlot(availability.DayInput{
		Establishment:          est,
		Date:                   date,
		ServiceDurationMinutes: svc.DurationMinutes,
		StepMinutes:            uc.stepMinutes,
		Now:                    now,
		BlockedDates:           calendar.BlockedDates,
		BlockedTimes:           calendar.BlockedTimes,
		Appointments:           calendar.Appointments,
	}, req.StartTime)
	if err != nil {
		return nil, err
	}
	if err := conflictFromSlot(status); err != nil {
		uc.logger.Warn("CreateBooking: slot %s %s is %s", date.Format(domain.DateFormat), req.StartTime, status)
		return nil, err
	}

	// 3.8. Клиент ищется по телефону и привязывается к заведению
	customer, err := uc.deps.Customers.UpsertByPhone(ctx, &req.Customer)
	if err != nil {
		return nil, fmt.Errorf("%w: upsert customer: %w", ErrInternal, err)
	}
	if err := uc.deps.Customers.AttachToEstablishment(ctx, customer.ID, est.ID); err != nil {
		return nil, fmt.Errorf("%w: attach customer: %w", ErrInternal, err)
	}

	// 3.9. Купон: недействительный купон даёт нулевую скидку, а не ошибку
	price := servicePrice(svc)
	coupon, err := uc.resolveCoupon(ctx, est.ID, req.CouponCode, now)
	if err != nil {
		return nil, err
	}
	discount := coupon.Discount(price)

	// 3.10. Создаём запись со снимком длительности и цены услуги
	appt := &domain.Appointment{
		EstablishmentID: est.ID,
		CustomerID:      customer.ID,
		ServiceID:       svc.ID,
		Date:            date,
		StartTime:       req.StartTime,
		Status:          initialStatus(est),
		DurationMinutes: svc.DurationMinutes,
		Price:           price,
		DiscountAmount:  discount,
		TotalPrice:      math.Round((price-discount)*100) / 100,
		Notes:           req.Notes,
	}
	if coupon != nil && discount > 0 {
		appt.CouponID = &coupon.ID
		if err := uc.deps.Coupons.IncrementUsage(ctx, coupon.ID); err != nil {
			return nil, fmt.Errorf("%w: increment coupon usage: %w", ErrInternal, err)
		}
	}

	created, err := uc.deps.Appointments.Create(ctx, appt)
	if err != nil {
		return nil, fmt.Errorf("%w: create appointment: %w", ErrInternal, err)
	}

	return created, nil
}

// checkQuota считает неотменённые записи, созданные в текущем календарном месяце заведения
func (uc *UseCase) checkQuota(ctx context.Context, est *domain.Establishment, now time.Time) error {
	limit, err := uc.deps.Plans.GetMonthlyLimit(ctx, est.ID)
	if err != nil {
		return fmt.Errorf("%w: get plan limit: %w", ErrInternal, err)
	}
	if limit == nil {
		return nil
	}

	today := est.Today(now)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	used, err := uc.deps.Appointments.CountActiveCreatedBetween(ctx, est.ID, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return fmt.Errorf("%w: count appointments: %w", ErrInternal, err)
	}

	if used >= *limit {
		uc.logger.Warn("CreateBooking: establishment id=%d reached monthly limit %d", est.ID, *limit)
		return &domain.QuotaError{Limit: *limit, Used: used}
	}
	return nil
}

func (uc *UseCase) resolveCoupon(ctx context.Context, establishmentID int64, code *string, now time.Time) (*domain.Coupon, error) {
	if code == nil || *code == "" {
		return nil, nil
	}

	coupon, err := uc.deps.Coupons.GetByCode(ctx, establishmentID, *code)
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			uc.logger.Info("CreateBooking: coupon %q not found, booking without discount", *code)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get coupon: %w", ErrInternal, err)
	}

	if !coupon.IsValid(now) {
		uc.logger.Info("CreateBooking: coupon %q is not valid, booking without discount", *code)
		return nil, nil
	}
	return coupon, nil
}

func (uc *UseCase) countOutcome(err error) {
	if uc.deps.Metrics == nil {
		return
	}

	outcome := metrics.BookingOutcomeCreated
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConflict):
		outcome = metrics.BookingOutcomeConflict
	case errors.Is(err, domain.ErrQuotaExceeded):
		outcome = metrics.BookingOutcomeQuota
	case errors.Is(err, domain.ErrValidation):
		outcome = metrics.BookingOutcomeValidation
	default:
		outcome = metrics.BookingOutcomeError
	}
	uc.deps.Metrics.IncBookingOutcome(outcome)
}

// initialStatus запись ждёт оплаты, если заведение берёт предоплату и оплата подключена
func initialStatus(est *domain.Establishment) domain.AppointmentStatus {
	if est.RequiresBookingFee() {
		return domain.StatusPendingPayment
	}
	return domain.StatusConfirmed
}

// servicePrice цена со скидкой заведения, если она задана
func servicePrice(svc *domain.Service) float64 {
	if svc.FinalPrice > 0 {
		return svc.FinalPrice
	}
	return svc.Price
}

func mapError(err error) error {
	switch {
	case errors.Is(err, schedule.ErrEstablishmentNotFound):
		return ErrEstablishmentNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConfig),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrQuotaExceeded),
		errors.Is(err, ErrConcurrentUpdate),
		errors.Is(err, ErrInternal):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		EstablishmentID: a.EstablishmentID,
		CustomerID:      a.CustomerID,
		ServiceID:       a.ServiceID,
		Date:            a.Date,
		StartTime:       a.StartTime,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		Price:           a.Price,
		DiscountAmount:  a.DiscountAmount,
		TotalPrice:      a.TotalPrice,
		CouponID:        a.CouponID,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
	}
}
