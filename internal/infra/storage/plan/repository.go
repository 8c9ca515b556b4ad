package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/pkg/dbmetrics"
	"github.com/emer5om/horaly-pro-sub000/pkg/psqlbuilder"
)

// Repository репозиторий тарифов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория тарифов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByEstablishment получает тариф заведения.
// Заведение без тарифа возвращает nil без ошибки: лимита нет.
func (r *Repository) GetByEstablishment(ctx context.Context, establishmentID int64) (*domain.Plan, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"p.id",
		"p.name",
		"p.monthly_appointment_limit",
		"p.unlimited_appointments",
	).
		From("establishments e").
		Join("plans p ON p.id = e.plan_id").
		Where(squirrel.Eq{"e.id": establishmentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEstablishment - build select query: %v", ErrBuildQuery, err)
	}

	var (
		p     domain.Plan
		limit sql.NullInt64
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.Name,
		&limit,
		&p.UnlimitedAppointments,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEstablishment - scan plan: %w", ErrScanRow, err)
	}

	if limit.Valid {
		l := int(limit.Int64)
		p.MonthlyAppointmentLimit = &l
	}

	return &p, nil
}

// GetMonthlyLimit возвращает месячный лимит записей или nil, если лимита нет
func (r *Repository) GetMonthlyLimit(ctx context.Context, establishmentID int64) (*int, error) {
	p, err := r.GetByEstablishment(ctx, establishmentID)
	if err != nil {
		return nil, err
	}

	limit, ok := p.MonthlyLimit()
	if !ok {
		return nil, nil
	}
	return &limit, nil
}
