package blocking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/pkg/dbmetrics"
	"github.com/emer5om/horaly-pro-sub000/pkg/psqlbuilder"
)

// Repository репозиторий заблокированных дней и интервалов заведения
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListBlockedDates получает блокировки дней за период [from, to].
// Ежегодные (is_recurring) возвращаются всегда: их год не имеет значения.
func (r *Repository) ListBlockedDates(ctx context.Context, establishmentID int64, from, to time.Time) ([]*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "establishment_id", "blocked_date", "is_recurring", "reason").
		From("blocked_dates").
		Where(squirrel.Eq{"establishment_id": establishmentID}).
		Where(squirrel.Or{
			squirrel.Eq{"is_recurring": true},
			squirrel.And{
				squirrel.GtOrEq{"blocked_date": from.Format(domain.DateFormat)},
				squirrel.LtOrEq{"blocked_date": to.Format(domain.DateFormat)},
			},
		}).
		OrderBy("blocked_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocked := make([]*domain.BlockedDate, 0)
	for rows.Next() {
		var (
			b      domain.BlockedDate
			reason sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.EstablishmentID, &b.Date, &b.IsRecurring, &reason); err != nil {
			return nil, fmt.Errorf("%w: ListBlockedDates - scan blocked date: %w", ErrScanRow, err)
		}
		if reason.Valid {
			b.Reason = &reason.String
		}
		blocked = append(blocked, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - rows error: %w", ErrScanRow, err)
	}

	return blocked, nil
}

// ListBlockedTimes получает заблокированные интервалы за период [from, to]
func (r *Repository) ListBlockedTimes(ctx context.Context, establishmentID int64, from, to time.Time) ([]*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "establishment_id", "blocked_date", "start_time", "end_time", "reason").
		From("blocked_times").
		Where(squirrel.Eq{"establishment_id": establishmentID}).
		Where(squirrel.GtOrEq{"blocked_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"blocked_date": to.Format(domain.DateFormat)}).
		OrderBy("blocked_date ASC, start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedTimes - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocked := make([]*domain.BlockedTime, 0)
	for rows.Next() {
		var (
			b      domain.BlockedTime
			reason sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.EstablishmentID, &b.Date, &b.StartTime, &b.EndTime, &reason); err != nil {
			return nil, fmt.Errorf("%w: ListBlockedTimes - scan blocked time: %w", ErrScanRow, err)
		}
		if reason.Valid {
			b.Reason = &reason.String
		}
		blocked = append(blocked, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlockedTimes - rows error: %w", ErrScanRow, err)
	}

	return blocked, nil
}
