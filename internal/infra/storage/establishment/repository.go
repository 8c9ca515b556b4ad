package establishment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/pkg/dbmetrics"
	"github.com/emer5om/horaly-pro-sub000/pkg/psqlbuilder"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Repository репозиторий заведений и их правил записи
type Repository struct {
	db     DBExecutor
	logger Logger
}

// NewRepository создает новый экземпляр репозитория заведений
func NewRepository(db DBExecutor, logger Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

var columns = []string{
	"id",
	"slug",
	"name",
	"timezone",
	"owner_user_id",
	"working_hours",
	"slots_per_hour",
	"earliest_booking_time",
	"latest_booking_time",
	"required_customer_fields",
	"plan_id",
	"require_booking_fee",
	"booking_fee_amount",
	"payment_configured",
	"created_at",
	"updated_at",
}

// GetBySlug получает заведение по slug публичной страницы
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Establishment, error) {
	return r.getOne(ctx, "GetBySlug", squirrel.Eq{"slug": slug})
}

// GetByID получает заведение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Establishment, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// LockForBooking блокирует строку заведения до конца транзакции.
// Все записи одного заведения проходят через эту блокировку по очереди,
// поэтому проверка вместимости и квоты не гоняется с параллельной вставкой.
// Транзакция должна быть READ COMMITTED: следующие запросы получают свежий снимок
// и видят записи, зафиксированные предыдущим владельцем блокировки.
// Вне пишущей транзакции ничего не делает.
func (r *Repository) LockForBooking(ctx context.Context, id int64) error {
	if !dbmetrics.CanLockRows(ctx) {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("establishments").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockForBooking - build select query: %v", ErrBuildQuery, err)
	}

	var lockedID int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEstablishmentNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: LockForBooking - lock row: %w", ErrExecQuery, err)
	}

	return nil
}

// UpdateBookingRules сохраняет рабочие часы, вместимость и политики горизонта
func (r *Repository) UpdateBookingRules(ctx context.Context, id int64, rules domain.BookingRules) (*domain.Establishment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	workingHours, err := json.Marshal(rules.WorkingHours)
	if err != nil {
		return nil, fmt.Errorf("%w: working_hours: %v", ErrEncode, err)
	}

	requiredFields, err := json.Marshal(rules.RequiredCustomerFields)
	if err != nil {
		return nil, fmt.Errorf("%w: required_customer_fields: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update("establishments").
		Set("working_hours", string(workingHours)).
		Set("slots_per_hour", rules.SlotsPerHour).
		Set("earliest_booking_time", string(rules.EarliestBookingTime)).
		Set("latest_booking_time", string(rules.LatestBookingTime)).
		Set("required_customer_fields", string(requiredFields)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateBookingRules - build update query: %v", ErrBuildQuery, err)
	}

	est, err := r.scan(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEstablishmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateBookingRules - %w", ErrScanRow, err)
	}

	return est, nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Establishment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("establishments").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	est, err := r.scan(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEstablishmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - %w", ErrScanRow, op, err)
	}

	return est, nil
}

// scan читает строку и разбирает JSONB-поля и политики горизонта
func (r *Repository) scan(row *sql.Row) (*domain.Establishment, error) {
	var (
		est            domain.Establishment
		workingHours   []byte
		requiredFields []byte
		earliest       string
		latest         string
		planID         sql.NullInt64
	)

	err := row.Scan(
		&est.ID,
		&est.Slug,
		&est.Name,
		&est.Timezone,
		&est.OwnerUserID,
		&workingHours,
		&est.SlotsPerHour,
		&earliest,
		&latest,
		&requiredFields,
		&planID,
		&est.RequireBookingFee,
		&est.BookingFeeAmount,
		&est.PaymentConfigured,
		&est.CreatedAt,
		&est.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if planID.Valid {
		est.PlanID = &planID.Int64
	}

	est.WorkingHours = domain.WorkingHours{}
	if len(workingHours) > 0 {
		if err := json.Unmarshal(workingHours, &est.WorkingHours); err != nil {
			return nil, fmt.Errorf("decode working_hours of establishment id=%d: %w", est.ID, err)
		}
	}

	est.RequiredCustomerFields = r.decodeRequiredFields(est.ID, requiredFields)

	var ok bool
	if est.EarliestBookingTime, ok = domain.EarliestBookingPolicyOrDefault(earliest); !ok {
		r.logger.Warn("establishment id=%d: unknown earliest_booking_time %q, using %s", est.ID, earliest, est.EarliestBookingTime)
	}
	if est.LatestBookingTime, ok = domain.LatestBookingPolicyOrDefault(latest); !ok {
		r.logger.Warn("establishment id=%d: unknown latest_booking_time %q, using %s", est.ID, latest, est.LatestBookingTime)
	}

	return &est, nil
}

func (r *Repository) decodeRequiredFields(id int64, raw []byte) []domain.CustomerField {
	if len(raw) == 0 {
		return nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		r.logger.Warn("establishment id=%d: cannot decode required_customer_fields: %v", id, err)
		return nil
	}

	fields := make([]domain.CustomerField, 0, len(names))
	for _, name := range names {
		field, err := domain.ParseCustomerField(name)
		if err != nil {
			r.logger.Warn("establishment id=%d: skipping unknown required field %q", id, name)
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

