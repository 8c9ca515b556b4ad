// Package schedule загружает всё, что нужно для расчёта доступности:
// заведение, услугу, блокировки и активные записи за период.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	catalogRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/catalog"
	establishmentRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/establishment"
)

// Calendar блокировки и записи заведения за период
type Calendar struct {
	BlockedDates []*domain.BlockedDate
	BlockedTimes []*domain.BlockedTime
	Appointments []*domain.Appointment
}

// Service сервис загрузки расписания
type Service struct {
	establishmentRepo EstablishmentRepository
	serviceRepo       ServiceRepository
	blockingRepo      BlockingRepository
	appointmentRepo   AppointmentRepository
	txManager         TransactionManager
	logger            Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	establishmentRepo EstablishmentRepository,
	serviceRepo ServiceRepository,
	blockingRepo BlockingRepository,
	appointmentRepo AppointmentRepository,
	logger Logger,
) *Service {
	return &Service{
		establishmentRepo: establishmentRepo,
		serviceRepo:       serviceRepo,
		blockingRepo:      blockingRepo,
		appointmentRepo:   appointmentRepo,
		logger:            logger,
	}
}

// WithTxManager включает чтение календаря в одной транзакции только для чтения
func (s *Service) WithTxManager(txManager TransactionManager) *Service {
	s.txManager = txManager
	return s
}

// GetEstablishment получает заведение по slug
func (s *Service) GetEstablishment(ctx context.Context, slug string) (*domain.Establishment, error) {
	est, err := s.establishmentRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, establishmentRepo.ErrEstablishmentNotFound) {
			s.logger.Warn("GetEstablishment: establishment slug=%q not found", slug)
			return nil, ErrEstablishmentNotFound
		}
		s.logger.Error("GetEstablishment: repository error for slug=%q: %v", slug, err)
		return nil, fmt.Errorf("%w: GetEstablishment - repository error: %w", ErrInternal, err)
	}
	return est, nil
}

// GetBookableService получает активную услугу заведения.
// Неизвестная, неактивная или чужая услуга это ошибка ввода клиента, а не 404.
func (s *Service) GetBookableService(ctx context.Context, est *domain.Establishment, serviceID int64) (*domain.Service, error) {
	if serviceID <= 0 {
		return nil, domain.NewValidationError("serviceId", "must be positive")
	}

	svc, err := s.serviceRepo.GetService(ctx, est.ID, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("GetBookableService: service id=%d not found in establishment id=%d", serviceID, est.ID)
			return nil, domain.NewValidationError("serviceId", "unknown service %d", serviceID)
		}
		s.logger.Error("GetBookableService: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: GetBookableService - repository error: %w", ErrInternal, err)
	}

	if !svc.IsActive {
		s.logger.Warn("GetBookableService: service id=%d is inactive", serviceID)
		return nil, domain.NewValidationError("serviceId", "service %d is not available", serviceID)
	}
	if svc.DurationMinutes <= 0 || svc.DurationMinutes > domain.MaxServiceDurationMins {
		s.logger.Error("GetBookableService: service id=%d has invalid duration %d", serviceID, svc.DurationMinutes)
		return nil, &domain.ConfigError{
			EstablishmentID: est.ID,
			Field:           "services.duration_minutes",
			Message:         fmt.Sprintf("service %d has invalid duration %d", serviceID, svc.DurationMinutes),
		}
	}

	return svc, nil
}

// LoadCalendar загружает блокировки и активные записи за [from, to].
// Три выборки читаются из одного снимка. Внутри транзакции создания записи
// используется она, и строки записей блокируются.
func (s *Service) LoadCalendar(ctx context.Context, establishmentID int64, from, to time.Time) (*Calendar, error) {
	if s.txManager == nil {
		return s.loadCalendar(ctx, establishmentID, from, to)
	}

	var calendar *Calendar
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		c, err := s.loadCalendar(txCtx, establishmentID, from, to)
		if err != nil {
			return err
		}
		calendar = c
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("LoadCalendar: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: LoadCalendar - transaction: %w", ErrInternal, err)
	}
	return calendar, nil
}

func (s *Service) loadCalendar(ctx context.Context, establishmentID int64, from, to time.Time) (*Calendar, error) {
	blockedDates, err := s.blockingRepo.ListBlockedDates(ctx, establishmentID, from, to)
	if err != nil {
		s.logger.Error("LoadCalendar: failed to get blocked dates: %v", err)
		return nil, fmt.Errorf("%w: LoadCalendar - blocked dates: %w", ErrInternal, err)
	}

	blockedTimes, err := s.blockingRepo.ListBlockedTimes(ctx, establishmentID, from, to)
	if err != nil {
		s.logger.Error("LoadCalendar: failed to get blocked times: %v", err)
		return nil, fmt.Errorf("%w: LoadCalendar - blocked times: %w", ErrInternal, err)
	}

	appointments, err := s.appointmentRepo.ListActiveByDateRange(ctx, establishmentID, from, to)
	if err != nil {
		s.logger.Error("LoadCalendar: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: LoadCalendar - appointments: %w", ErrInternal, err)
	}

	return &Calendar{
		BlockedDates: blockedDates,
		BlockedTimes: blockedTimes,
		Appointments: appointments,
	}, nil
}
