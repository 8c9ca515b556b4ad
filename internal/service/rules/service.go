// Package rules отвечает за доступ администратора к заведению и чтение правил записи.
package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	establishmentRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/establishment"
	"github.com/emer5om/horaly-pro-sub000/internal/service/rules/models"
)

// Service сервис правил записи
type Service struct {
	establishmentRepo EstablishmentRepository
	logger            Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(establishmentRepo EstablishmentRepository, logger Logger) *Service {
	return &Service{
		establishmentRepo: establishmentRepo,
		logger:            logger,
	}
}

// Authorize проверяет, что пользователь владеет заведением, и возвращает его
func (s *Service) Authorize(ctx context.Context, establishmentID, userID int64) (*domain.Establishment, error) {
	est, err := s.establishmentRepo.GetByID(ctx, establishmentID)
	if err != nil {
		if errors.Is(err, establishmentRepo.ErrEstablishmentNotFound) {
			s.logger.Warn("Authorize: establishment id=%d not found", establishmentID)
			return nil, ErrEstablishmentNotFound
		}
		s.logger.Error("Authorize: repository error for establishment id=%d: %v", establishmentID, err)
		return nil, fmt.Errorf("%w: Authorize - repository error: %w", ErrInternal, err)
	}

	if !est.IsOwnedBy(userID) {
		s.logger.Warn("Authorize: user=%d is not the owner of establishment=%d", userID, establishmentID)
		return nil, ErrAccessDenied
	}

	return est, nil
}

// GetBookingRules возвращает текущие правила записи заведения.
// Доступно только владельцу.
func (s *Service) GetBookingRules(ctx context.Context, establishmentID, userID int64) (*models.BookingRulesResponse, error) {
	s.logger.Info("GetBookingRules: establishment=%d by user=%d", establishmentID, userID)

	est, err := s.Authorize(ctx, establishmentID, userID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainEstablishment(est), nil
}
