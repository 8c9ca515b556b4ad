package get_booking_rules

import (
	"context"

	"github.com/emer5om/horaly-pro-sub000/internal/service/rules/models"
)

type RulesService interface {
	GetBookingRules(ctx context.Context, establishmentID, userID int64) (*models.BookingRulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
