package create_booking

import (
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	createBooking "github.com/emer5om/horaly-pro-sub000/internal/usecase/create_booking"
	"github.com/emer5om/horaly-pro-sub000/pkg/types"
)

// CustomerRequest данные клиента из формы записи
type CustomerRequest struct {
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"` // "1990-05-20"
	Notes     *string `json:"notes,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID  int64           `json:"serviceId"`
	Date       string          `json:"date"` // "2025-10-15"
	Time       string          `json:"time"` // "10:00"
	Customer   CustomerRequest `json:"customer"`
	CouponCode *string         `json:"couponCode,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	EstablishmentID int64   `json:"establishmentId"`
	CustomerID      int64   `json:"customerId"`
	ServiceID       int64   `json:"serviceId"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Price           float64 `json:"price"`
	DiscountAmount  float64 `json:"discountAmount"`
	TotalPrice      float64 `json:"totalPrice"`
	CouponID        *int64  `json:"couponId,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Ошибка разбора возвращается как ValidationError с именем поля.
func (r *CreateBookingRequest) ToUseCaseRequest(slug string) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, domain.NewValidationError("date", "expected YYYY-MM-DD")
	}

	startTime, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, domain.NewValidationError("time", "expected HH:MM")
	}

	var birthDate *time.Time
	if r.Customer.BirthDate != nil && *r.Customer.BirthDate != "" {
		bd, err := time.Parse(domain.DateFormat, *r.Customer.BirthDate)
		if err != nil {
			return nil, domain.NewValidationError("customer.birth_date", "expected YYYY-MM-DD")
		}
		birthDate = &bd
	}

	return &createBooking.Request{
		EstablishmentSlug: slug,
		ServiceID:         r.ServiceID,
		Date:              date,
		StartTime:         startTime,
		Customer: domain.CustomerInput{
			Name:      r.Customer.Name,
			Phone:     r.Customer.Phone,
			Email:     r.Customer.Email,
			BirthDate: birthDate,
			Notes:     r.Customer.Notes,
		},
		CouponCode: r.CouponCode,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		EstablishmentID: resp.EstablishmentID,
		CustomerID:      resp.CustomerID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		Time:            resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          string(resp.Status),
		Price:           resp.Price,
		DiscountAmount:  resp.DiscountAmount,
		TotalPrice:      resp.TotalPrice,
		CouponID:        resp.CouponID,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
