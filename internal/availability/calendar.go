// Package availability computes which start times and which days can be booked.
// Everything here is pure: callers load the data, this package only decides.
package availability

import (
	"fmt"
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/pkg/types"
)

// Window is the opening interval of one day
type Window struct {
	Open  bool
	Start types.TimeString
	End   types.TimeString
}

// DayWindow returns the working window for the weekday of date.
// A missing or closed weekday yields a closed window; broken times yield *domain.ConfigError.
func DayWindow(est *domain.Establishment, date time.Time) (Window, error) {
	weekday := domain.WeekdayOf(date)

	schedule, ok := est.WorkingHours[weekday]
	if !ok || !schedule.IsOpen {
		return Window{Open: false}, nil
	}

	field := fmt.Sprintf("working_hours.%s", weekday)

	start, err := types.NewTimeStringFromString(schedule.StartTime)
	if err != nil {
		return Window{}, &domain.ConfigError{EstablishmentID: est.ID, Field: field, Message: fmt.Sprintf("bad start_time %q", schedule.StartTime)}
	}

	end, err := types.NewTimeStringFromString(schedule.EndTime)
	if err != nil {
		return Window{}, &domain.ConfigError{EstablishmentID: est.ID, Field: field, Message: fmt.Sprintf("bad end_time %q", schedule.EndTime)}
	}

	if !start.IsBefore(end) {
		return Window{}, &domain.ConfigError{EstablishmentID: est.ID, Field: field, Message: fmt.Sprintf("start_time %s is not before end_time %s", start, end)}
	}

	return Window{Open: true, Start: start, End: end}, nil
}
