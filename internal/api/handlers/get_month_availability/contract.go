package get_month_availability

import (
	"context"

	uc "github.com/emer5om/horaly-pro-sub000/internal/usecase/get_month_availability"
)

type UseCase interface {
	Execute(ctx context.Context, req *uc.Request) (*uc.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
