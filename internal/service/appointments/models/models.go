package models

import (
	"fmt"
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

// Request модели

// GetAgendaRequest запрос агенды заведения за период [From, To]
type GetAgendaRequest struct {
	EstablishmentID int64
	UserID          int64
	From            time.Time
	To              time.Time
	Status          *string
}

// DomainStatus проверяет фильтр по статусу
func (r *GetAgendaRequest) DomainStatus() (*domain.AppointmentStatus, error) {
	if r.Status == nil || *r.Status == "" {
		return nil, nil
	}

	status, err := ToDomainAppointmentStatus(*r.Status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Response модели

// AppointmentResponse запись заведения
type AppointmentResponse struct {
	ID              int64      `json:"id"`
	EstablishmentID int64      `json:"establishmentId"`
	CustomerID      int64      `json:"customerId"`
	ServiceID       int64      `json:"serviceId"`
	Date            string     `json:"date"`
	StartTime       string     `json:"time"`
	DurationMinutes int        `json:"durationMinutes"`
	Status          string     `json:"status"`
	Price           float64    `json:"price"`
	DiscountAmount  float64    `json:"discountAmount"`
	TotalPrice      float64    `json:"totalPrice"`
	CouponID        *int64     `json:"couponId,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:              a.ID,
		EstablishmentID: a.EstablishmentID,
		CustomerID:      a.CustomerID,
		ServiceID:       a.ServiceID,
		Date:            a.Date.Format(domain.DateFormat),
		StartTime:       a.StartTime.String(),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		Price:           a.Price,
		DiscountAmount:  a.DiscountAmount,
		TotalPrice:      a.TotalPrice,
		CouponID:        a.CouponID,
		Notes:           a.Notes,
		CancelledAt:     a.CancelledAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}

// ToDomainAppointmentStatus конвертирует строку в статус записи
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	switch s := domain.AppointmentStatus(status); s {
	case domain.StatusPending,
		domain.StatusPendingPayment,
		domain.StatusConfirmed,
		domain.StatusStarted,
		domain.StatusCompleted,
		domain.StatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("unknown appointment status %q", status)
	}
}
