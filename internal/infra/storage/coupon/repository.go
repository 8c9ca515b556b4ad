package coupon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/pkg/dbmetrics"
	"github.com/emer5om/horaly-pro-sub000/pkg/psqlbuilder"
)

// Repository репозиторий купонов заведения
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория купонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCode получает купон заведения по коду без учёта регистра.
// Проверка срока действия и лимита остаётся на вызывающей стороне.
func (r *Repository) GetByCode(ctx context.Context, establishmentID int64, code string) (*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"establishment_id",
		"code",
		"discount_type",
		"discount_value",
		"is_active",
		"valid_from",
		"valid_until",
		"usage_limit",
		"used_count",
	).
		From("coupons").
		Where(squirrel.Eq{"establishment_id": establishmentID}).
		Where(squirrel.Expr("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code)))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build select query: %v", ErrBuildQuery, err)
	}

	var (
		c          domain.Coupon
		validFrom  sql.NullTime
		validUntil sql.NullTime
		usageLimit sql.NullInt64
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.EstablishmentID,
		&c.Code,
		&c.DiscountType,
		&c.DiscountValue,
		&c.IsActive,
		&validFrom,
		&validUntil,
		&usageLimit,
		&c.UsedCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - scan coupon: %w", ErrScanRow, err)
	}

	if validFrom.Valid {
		c.ValidFrom = &validFrom.Time
	}
	if validUntil.Valid {
		c.ValidUntil = &validUntil.Time
	}
	if usageLimit.Valid {
		limit := int(usageLimit.Int64)
		c.UsageLimit = &limit
	}

	return &c, nil
}

// IncrementUsage увеличивает счётчик использований купона
func (r *Repository) IncrementUsage(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("coupons").
		Set("used_count", squirrel.Expr("used_count + 1")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: IncrementUsage - execute update: %w", ErrExecQuery, err)
	}

	return nil
}
