package customer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/pkg/dbmetrics"
	"github.com/emer5om/horaly-pro-sub000/pkg/psqlbuilder"
)

// Repository репозиторий клиентов.
// Клиент глобален и идентифицируется нормализованным телефоном.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertByPhone находит клиента по телефону или создаёт нового.
// У существующего клиента переданные непустые поля перезаписываются, пустые остаются прежними.
func (r *Repository) UpsertByPhone(ctx context.Context, in *domain.CustomerInput) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var birthDate *string
	if in.BirthDate != nil && !in.BirthDate.IsZero() {
		s := in.BirthDate.Format(domain.DateFormat)
		birthDate = &s
	}

	query, args, err := psqlbuilder.Insert("customers").
		Columns("name", "phone", "email", "birth_date", "notes").
		Values(in.Name, domain.NormalizePhone(in.Phone), in.Email, birthDate, in.Notes).
		Suffix(`ON CONFLICT (phone) DO UPDATE SET
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE customers.name END,
			email = COALESCE(EXCLUDED.email, customers.email),
			birth_date = COALESCE(EXCLUDED.birth_date, customers.birth_date),
			notes = COALESCE(EXCLUDED.notes, customers.notes),
			updated_at = NOW()
		RETURNING id, name, phone, email, birth_date, notes, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByPhone - build insert query: %v", ErrBuildQuery, err)
	}

	var (
		c     domain.Customer
		email sql.NullString
		birth sql.NullTime
		notes sql.NullString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&email,
		&birth,
		&notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByPhone - execute upsert: %w", ErrExecQuery, err)
	}

	if email.Valid {
		c.Email = &email.String
	}
	if birth.Valid {
		c.BirthDate = &birth.Time
	}
	if notes.Valid {
		c.Notes = &notes.String
	}

	return &c, nil
}

// AttachToEstablishment связывает клиента с заведением, повторная связь игнорируется
func (r *Repository) AttachToEstablishment(ctx context.Context, customerID, establishmentID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("customer_establishments").
		Columns("customer_id", "establishment_id").
		Values(customerID, establishmentID).
		Suffix("ON CONFLICT (customer_id, establishment_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AttachToEstablishment - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AttachToEstablishment - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}
