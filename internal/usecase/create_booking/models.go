package create_booking

import (
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/pkg/types"
)

// Request модель запроса на создание записи с публичной страницы
type Request struct {
	EstablishmentSlug string
	ServiceID         int64
	Date              time.Time        // календарная дата, время и зона игнорируются
	StartTime         types.TimeString // например, "10:00"
	Customer          domain.CustomerInput
	CouponCode        *string
	Notes             *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	EstablishmentID int64
	CustomerID      int64
	ServiceID       int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          domain.AppointmentStatus

	Price          float64
	DiscountAmount float64
	TotalPrice     float64
	CouponID       *int64
	Notes          *string

	CreatedAt time.Time
}
