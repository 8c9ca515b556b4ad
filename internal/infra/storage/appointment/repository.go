package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/pkg/dbmetrics"
	"github.com/emer5om/horaly-pro-sub000/pkg/psqlbuilder"
)

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var columns = []string{
	"id",
	"establishment_id",
	"customer_id",
	"service_id",
	"appointment_date",
	"start_time",
	"status",
	"duration_minutes",
	"price",
	"discount_amount",
	"total_price",
	"coupon_id",
	"notes",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Create создает новую запись.
// Если в контексте есть транзакция, вставка идёт в ней, иначе обычным запросом.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"establishment_id",
			"customer_id",
			"service_id",
			"appointment_date",
			"start_time",
			"status",
			"duration_minutes",
			"price",
			"discount_amount",
			"total_price",
			"coupon_id",
			"notes",
		).
		Values(
			appt.EstablishmentID,
			appt.CustomerID,
			appt.ServiceID,
			appt.Date.Format(domain.DateFormat),
			appt.StartTime,
			appt.Status,
			appt.DurationMinutes,
			appt.Price,
			appt.DiscountAmount,
			appt.TotalPrice,
			appt.CouponID,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return appt, nil
}

// GetByID получает запись заведения по ID.
// Внутри пишущей транзакции строка блокируется до её завершения.
func (r *Repository) GetByID(ctx context.Context, establishmentID, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"id": id, "establishment_id": establishmentID})

	if dbmetrics.CanLockRows(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return appt, nil
}

// ListActiveByDateRange получает неотменённые записи заведения за период [from, to] включительно.
// Внутри пишущей транзакции строки блокируются (FOR UPDATE) для создания записи без гонок.
func (r *Repository) ListActiveByDateRange(ctx context.Context, establishmentID int64, from, to time.Time) ([]*domain.Appointment, error) {
	selectBuilder := dateRangeQuery(establishmentID, from, to).
		Where(squirrel.NotEq{"status": inactiveStatuses()})

	if dbmetrics.CanLockRows(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.queryAppointments(ctx, "ListActiveByDateRange", selectBuilder)
}

// ListByDateRange возвращает записи заведения за период, включая отменённые.
// status == nil означает все статусы.
func (r *Repository) ListByDateRange(ctx context.Context, establishmentID int64, from, to time.Time, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	selectBuilder := dateRangeQuery(establishmentID, from, to)
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*status)})
	}

	return r.queryAppointments(ctx, "ListByDateRange", selectBuilder)
}

func dateRangeQuery(establishmentID int64, from, to time.Time) squirrel.SelectBuilder {
	return psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"establishment_id": establishmentID}).
		Where(squirrel.GtOrEq{"appointment_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"appointment_date": to.Format(domain.DateFormat)}).
		OrderBy("appointment_date ASC, start_time ASC")
}

func (r *Repository) queryAppointments(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan appointment: %w", ErrScanRow, op, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return appointments, nil
}

// CountActiveCreatedBetween считает неотменённые записи, созданные в [from, to).
// Используется для проверки месячной квоты тарифа.
func (r *Repository) CountActiveCreatedBetween(ctx context.Context, establishmentID int64, from, to time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(squirrel.Eq{"establishment_id": establishmentID}).
		Where(squirrel.GtOrEq{"created_at": from}).
		Where(squirrel.Lt{"created_at": to}).
		Where(squirrel.NotEq{"status": inactiveStatuses()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveCreatedBetween - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveCreatedBetween - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// UpdateStatus обновляет статус записи.
// cancelledAt записывается только при отмене, в остальных случаях передаётся nil.
func (r *Repository) UpdateStatus(ctx context.Context, establishmentID, id int64, status domain.AppointmentStatus, cancelledAt *time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "establishment_id": establishmentID})

	if cancelledAt != nil {
		updateBuilder = updateBuilder.Set("cancelled_at", *cancelledAt)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt        domain.Appointment
		couponID    sql.NullInt64
		notes       sql.NullString
		cancelledAt sql.NullTime
	)

	err := row.Scan(
		&appt.ID,
		&appt.EstablishmentID,
		&appt.CustomerID,
		&appt.ServiceID,
		&appt.Date,
		&appt.StartTime,
		&appt.Status,
		&appt.DurationMinutes,
		&appt.Price,
		&appt.DiscountAmount,
		&appt.TotalPrice,
		&couponID,
		&notes,
		&cancelledAt,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if couponID.Valid {
		appt.CouponID = &couponID.Int64
	}
	if notes.Valid {
		appt.Notes = &notes.String
	}
	if cancelledAt.Valid {
		appt.CancelledAt = &cancelledAt.Time
	}

	return &appt, nil
}

func inactiveStatuses() []string {
	statuses := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
