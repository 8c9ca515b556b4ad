package create_booking

import (
	"context"

	createBooking "github.com/emer5om/horaly-pro-sub000/internal/usecase/create_booking"
)

// CreateBookingUseCase публичная запись клиента на слот заведения
type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
