package change_appointment_status

import (
	"context"

	uc "github.com/emer5om/horaly-pro-sub000/internal/usecase/change_appointment_status"
)

type UseCase interface {
	Execute(ctx context.Context, req *uc.Request) (*uc.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
