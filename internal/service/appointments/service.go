// Package appointments отдаёт владельцу заведения его записи: одну по ID и агенду за период.
package appointments

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/appointment"
	"github.com/emer5om/horaly-pro-sub000/internal/service/appointments/models"
	"github.com/emer5om/horaly-pro-sub000/internal/service/rules"
)

// maxAgendaDays ограничивает период агенды, чтобы не выгружать всю историю разом
const maxAgendaDays = 92

// Service сервис для чтения записей заведения
type Service struct {
	appointmentRepo AppointmentRepository
	access          AccessChecker
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, access AccessChecker, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		access:          access,
		logger:          logger,
	}
}

// GetByID получает запись заведения по ID.
// Доступно только владельцу заведения.
func (s *Service) GetByID(ctx context.Context, establishmentID, id, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d of establishment=%d for user=%d", id, establishmentID, userID)

	if err := s.authorize(ctx, establishmentID, userID); err != nil {
		return nil, err
	}

	appt, err := s.appointmentRepo.GetByID(ctx, establishmentID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found in establishment=%d", id, establishmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// GetAgenda получает записи заведения за период с опциональным фильтром по статусу.
// Доступно только владельцу заведения.
func (s *Service) GetAgenda(ctx context.Context, req *models.GetAgendaRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetAgenda: establishment=%d, user=%d, from=%s, to=%s, status=%v",
		req.EstablishmentID, req.UserID, req.From.Format("2006-01-02"), req.To.Format("2006-01-02"), req.Status)

	// 1. Валидируем период и статус
	if req.To.Before(req.From) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}
	if req.To.Sub(req.From).Hours()/24 > maxAgendaDays {
		return nil, fmt.Errorf("%w: period is longer than %d days", ErrInvalidInput, maxAgendaDays)
	}

	status, err := req.DomainStatus()
	if err != nil {
		s.logger.Warn("GetAgenda: invalid status=%v", req.Status)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем права владельца
	if err := s.authorize(ctx, req.EstablishmentID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Получаем записи
	list, err := s.appointmentRepo.ListByDateRange(ctx, req.EstablishmentID, req.From, req.To, status)
	if err != nil {
		s.logger.Error("GetAgenda: repository error for establishment=%d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: GetAgenda - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetAgenda: fetched %d appointments for establishment=%d", len(list), req.EstablishmentID)
	return models.FromDomainAppointmentList(list), nil
}

func (s *Service) authorize(ctx context.Context, establishmentID, userID int64) error {
	if _, err := s.access.Authorize(ctx, establishmentID, userID); err != nil {
		switch {
		case errors.Is(err, rules.ErrEstablishmentNotFound):
			return ErrEstablishmentNotFound
		case errors.Is(err, rules.ErrAccessDenied):
			return ErrAccessDenied
		default:
			return fmt.Errorf("%w: authorize: %w", ErrInternal, err)
		}
	}
	return nil
}
